package hooks

import (
	"net/url"

	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/core"
	"github.com/klauern/source-protection/internal/host"
	"github.com/klauern/source-protection/internal/policy"
)

// DisableActionsHook refuses actions that reveal page source or history to users without the
// edit right, even when they are reached by URL.
type DisableActionsHook struct {
	*core.BaseHook
}

var _ core.UserCanHandler = (*DisableActionsHook)(nil)

// NewDisableActionsHook creates a new disable-actions hook instance
func NewDisableActionsHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook(constants.HookDisableActions, "Disable Actions",
		"Blocks diffs and source-revealing actions for users without edit rights",
		core.UserCanPoint, ctx)
	return &DisableActionsHook{BaseHook: base}
}

// OnUserCan only restricts existing content pages. The decision reads the request's own
// action and diff parameters rather than the action argument.
func (h *DisableActionsHook) OnUserCan(rc *host.RequestContext, title host.Title, user host.User, action string) core.Result {
	if title == nil || title.IsSpecialPage() || !title.Exists() {
		return core.Continue()
	}

	rights := h.Context().Permissions.UserPermissions(user, title)
	if policy.HasEditRight(rights) {
		return core.Continue()
	}

	var params url.Values
	if rc != nil {
		params = rc.Params
	}
	p := h.Context().Policy
	if p == nil {
		p = policy.Default()
	}
	if denied, reason := p.DeniesRequest(params); denied {
		h.LogBlock("action_blocked", rc, map[string]interface{}{
			"reason":      reason,
			"hook_action": action,
		})
		return core.Deny(h.Context().Messages.Msg(constants.MsgNoAccess), reason)
	}

	h.LogApproval("action_allowed", rc, map[string]interface{}{
		"hook_action": action,
	})
	return core.Continue()
}
