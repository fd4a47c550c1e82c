package host

import "sort"

// Section names used by skins when assembling navigation links.
const (
	SectionNamespaces = "namespaces"
	SectionViews      = "views"
	SectionActions    = "actions"
)

// Link describes a single navigation entry.
type Link struct {
	Text  string `json:"text" yaml:"text"`
	Href  string `json:"href" yaml:"href"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
}

// NavigationLinks maps section name to link id to descriptor. Hooks mutate it in place.
type NavigationLinks map[string]map[string]Link

// Remove deletes id from section and reports whether it was present.
// Missing sections and ids are a no-op.
func (n NavigationLinks) Remove(section, id string) bool {
	links, ok := n[section]
	if !ok {
		return false
	}
	if _, ok := links[id]; !ok {
		return false
	}
	delete(links, id)
	return true
}

// Has reports whether section contains id.
func (n NavigationLinks) Has(section, id string) bool {
	_, ok := n[section][id]
	return ok
}

// IDs returns the sorted link ids of a section.
func (n NavigationLinks) IDs(section string) []string {
	ids := make([]string, 0, len(n[section]))
	for id := range n[section] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
