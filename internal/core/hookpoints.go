package core

// HookPoint represents a host extension point
type HookPoint string

// All supported host hook points
const (
	SkinTemplateNavigationPoint HookPoint = "SkinTemplateNavigation"
	UserCanPoint                HookPoint = "UserCan"
	ShowReadOnlyFormPoint       HookPoint = "ShowReadOnlyForm"
)

// HookPointInfo describes a hook point with metadata
type HookPointInfo struct {
	Point       HookPoint
	Name        string
	Description string
	// HostAliases are names other wiki hosts use for the same extension point
	HostAliases []string
}

// AllHookPoints returns all available hook points
func AllHookPoints() []HookPointInfo {
	return []HookPointInfo{
		{
			Point:       SkinTemplateNavigationPoint,
			Name:        string(SkinTemplateNavigationPoint),
			Description: "Runs once per page render while the skin assembles navigation links",
			HostAliases: []string{"SkinTemplateNavigation::Universal", "SkinTemplateNavigation"},
		},
		{
			Point:       UserCanPoint,
			Name:        string(UserCanPoint),
			Description: "Runs before the host executes a page action; a denial aborts the action",
			HostAliases: []string{"getUserPermissionsErrors", "userCan"},
		},
		{
			Point:       ShowReadOnlyFormPoint,
			Name:        string(ShowReadOnlyFormPoint),
			Description: "Runs when the host is about to render the read-only fallback of the edit form",
			HostAliases: []string{"EditPage::showReadOnlyForm:initial"},
		},
	}
}

// ValidHookPoints returns a slice of all valid hook point names
func ValidHookPoints() []string {
	points := AllHookPoints()
	names := make([]string, len(points))
	for i, p := range points {
		names[i] = p.Name
	}
	return names
}

// IsValidHookPoint checks if a hook point name is valid (including host aliases)
func IsValidHookPoint(name string) bool {
	return ResolveHookPointAlias(name) != ""
}

// ResolveHookPointAlias converts a host alias to its canonical hook point name.
// If the input is not recognized, it returns an empty string.
func ResolveHookPointAlias(name string) string {
	for _, p := range AllHookPoints() {
		if p.Name == name {
			return name
		}
		for _, alias := range p.HostAliases {
			if alias == name {
				return p.Name
			}
		}
	}
	return ""
}
