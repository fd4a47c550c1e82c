package hooks

import (
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/core"
	"github.com/klauern/source-protection/internal/host"
	"github.com/klauern/source-protection/internal/policy"
)

// ReadOnlyFormHook redirects non-editors away from the read-only edit form. The action gate
// normally stops them earlier; this catches hosts that reach the form some other way.
type ReadOnlyFormHook struct {
	*core.BaseHook
}

var _ core.ShowReadOnlyFormHandler = (*ReadOnlyFormHook)(nil)

// NewReadOnlyFormHook creates a new read-only-form hook instance
func NewReadOnlyFormHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook(constants.HookReadOnlyForm, "Read-only Form Guard",
		"Redirects users who cannot edit from the read-only edit form to the page view",
		core.ShowReadOnlyFormPoint, ctx)
	return &ReadOnlyFormHook{BaseHook: base}
}

// OnShowReadOnlyForm returns out, redirected to the context title when the user cannot edit.
func (h *ReadOnlyFormHook) OnShowReadOnlyForm(rc *host.RequestContext, edit host.EditPage, out host.OutputPage) host.OutputPage {
	var user host.User
	if rc != nil {
		user = rc.User
	}
	title := edit.Title()
	if user != nil && title != nil && h.Context().Permissions.UserCan(policy.EditRight, user, title) {
		return out
	}

	target := edit.ContextTitle()
	if target == nil {
		target = title
	}
	if target != nil {
		out.Redirect(target.LocalURL())
		h.LogBlock("read_only_form_redirect", rc, map[string]interface{}{
			"location": target.LocalURL(),
		})
	}
	return out
}
