package hooks

import (
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/core"
	"github.com/klauern/source-protection/internal/host"
	"github.com/klauern/source-protection/internal/policy"
)

// HideSourceHook strips the view-source tab for everyone and the edit-form and history
// tabs for users who cannot edit the page.
type HideSourceHook struct {
	*core.BaseHook
}

var _ core.SkinTemplateNavigationHandler = (*HideSourceHook)(nil)

// NewHideSourceHook creates a new hide-source hook instance
func NewHideSourceHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook(constants.HookHideSource, "Hide Source",
		"Removes the view source tab, and the edit form and history tabs for non-editors",
		core.SkinTemplateNavigationPoint, ctx)
	return &HideSourceHook{BaseHook: base}
}

// OnSkinTemplateNavigation filters links in place. It never vetoes rendering.
func (h *HideSourceHook) OnSkinTemplateNavigation(rc *host.RequestContext, skin host.SkinTemplate, links host.NavigationLinks) core.Result {
	title := pageTitle(rc, skin)
	canEdit := false
	if title != nil && rc != nil && rc.User != nil {
		canEdit = h.Context().Permissions.UserCan(policy.EditRight, rc.User, title)
	}

	removed := h.policy().FilterLinks(links, canEdit)

	h.LogHookEvent("navigation_filtered", rc, map[string]interface{}{
		"can_edit": canEdit,
		"removed":  removed,
	})

	if len(removed) > 0 {
		return core.Result{Decision: core.DecisionFiltered}
	}
	return core.Continue()
}

func (h *HideSourceHook) policy() *policy.Policy {
	if p := h.Context().Policy; p != nil {
		return p
	}
	return policy.Default()
}

// pageTitle prefers the skin's title and falls back to the request's.
func pageTitle(rc *host.RequestContext, skin host.SkinTemplate) host.Title {
	if skin != nil {
		if t := skin.Title(); t != nil {
			return t
		}
	}
	if rc != nil {
		return rc.Title
	}
	return nil
}
