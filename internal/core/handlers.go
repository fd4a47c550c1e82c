package core

import "github.com/klauern/source-protection/internal/host"

// SkinTemplateNavigationHandler interface for hooks that adjust navigation links
type SkinTemplateNavigationHandler interface {
	OnSkinTemplateNavigation(rc *host.RequestContext, skin host.SkinTemplate, links host.NavigationLinks) Result
}

// UserCanHandler interface for hooks that gate page actions
type UserCanHandler interface {
	OnUserCan(rc *host.RequestContext, title host.Title, user host.User, action string) Result
}

// ShowReadOnlyFormHandler interface for hooks that intercept the read-only edit form
type ShowReadOnlyFormHandler interface {
	OnShowReadOnlyForm(rc *host.RequestContext, edit host.EditPage, out host.OutputPage) host.OutputPage
}
