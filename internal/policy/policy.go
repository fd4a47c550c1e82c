// Package policy holds the fixed lists of views and actions hidden from non-editors and the
// pure functions that apply them. It performs no permission lookups of its own.
package policy

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/klauern/source-protection/internal/host"
)

// EditRight is the right that exempts a user from every restriction.
const EditRight = "edit"

// Default lists. Callers must not mutate them; use Default() for a private copy.
var (
	// AlwaysHiddenViews are removed from the views section for every user.
	AlwaysHiddenViews = []string{"viewsource"}
	// EditorOnlyViews are removed from the views section when the user cannot edit.
	EditorOnlyViews = []string{"form_edit", "history"}
	// DeniedActions are refused to non-editors when requested through ?action=.
	DeniedActions = []string{
		"edit",
		"move",
		"history",
		"info",
		"raw",
		"delete",
		"revert",
		"revisiondelete",
		"rollback",
		"markpatrolled",
	}
)

// KnownActions are page actions a host can serve through ?action=. A view id equal to one of
// these is reachable by URL even when its tab is hidden.
var KnownActions = []string{
	"view", "edit", "submit", "history", "info", "raw", "delete", "revert", "revisiondelete",
	"rollback", "markpatrolled", "move", "protect", "unprotect", "purge", "watch", "unwatch",
	"render", "credits",
}

// Reasons reported by Policy.DeniesRequest.
const (
	ReasonDiff   = "diff"
	ReasonAction = "action"
)

// Policy selects which link ids and actions are withheld from non-editors.
type Policy struct {
	HiddenViews     []string
	EditorOnlyViews []string
	DeniedActions   []string
	DenyDiff        bool
}

// Default returns a policy with the built-in lists.
func Default() *Policy {
	return &Policy{
		HiddenViews:     slices.Clone(AlwaysHiddenViews),
		EditorOnlyViews: slices.Clone(EditorOnlyViews),
		DeniedActions:   slices.Clone(DeniedActions),
		DenyDiff:        true,
	}
}

// HiddenViewsFor returns the view ids to strip for a user with the given edit permission.
func (p *Policy) HiddenViewsFor(canEdit bool) []string {
	out := slices.Clone(p.HiddenViews)
	if !canEdit {
		out = append(out, p.EditorOnlyViews...)
	}
	return out
}

// FilterLinks removes the hidden view ids from links in place and returns the ids that were
// actually present. Missing ids are ignored.
func (p *Policy) FilterLinks(links host.NavigationLinks, canEdit bool) []string {
	var removed []string
	for _, id := range p.HiddenViewsFor(canEdit) {
		if links.Remove(host.SectionViews, id) {
			removed = append(removed, id)
		}
	}
	return removed
}

// IsActionDenied reports whether action is on the deny-list.
func (p *Policy) IsActionDenied(action string) bool {
	return slices.Contains(p.DeniedActions, action)
}

// DeniesRequest inspects query parameters of a request made by a non-editor. It reports
// whether the request must be refused and which rule matched.
func (p *Policy) DeniesRequest(params url.Values) (bool, string) {
	if p.DenyDiff {
		if _, ok := params["diff"]; ok {
			return true, ReasonDiff
		}
	}
	// Must read the same value the host dispatches on.
	if action := host.ActionParam(params); action != "" && p.IsActionDenied(action) {
		return true, ReasonAction
	}
	return false, ""
}

// HasEditRight reports whether rights grants edit.
func HasEditRight(rights []string) bool {
	return slices.Contains(rights, EditRight)
}

// Validate checks the lists for empty entries and for editor-only views that stay reachable
// through ?action= because the deny-list does not cover them.
func (p *Policy) Validate() error {
	lists := []struct {
		name  string
		items []string
	}{
		{"hiddenViews", p.HiddenViews},
		{"editorOnlyViews", p.EditorOnlyViews},
		{"deniedActions", p.DeniedActions},
	}
	for _, l := range lists {
		for _, v := range l.items {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("policy %s contains an empty entry", l.name)
			}
		}
	}
	if gaps := p.UnguardedViews(); len(gaps) > 0 {
		return fmt.Errorf("editor-only views %s are hidden but their actions are not denied",
			strings.Join(gaps, ", "))
	}
	return nil
}

// UnguardedViews returns editor-only view ids that name a known action missing from the
// deny-list.
func (p *Policy) UnguardedViews() []string {
	var gaps []string
	for _, v := range p.EditorOnlyViews {
		if slices.Contains(KnownActions, v) && !p.IsActionDenied(v) {
			gaps = append(gaps, v)
		}
	}
	return gaps
}
