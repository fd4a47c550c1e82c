// Package host defines the services a wiki host supplies to source-protection hooks.
//
// Nothing in this package decides permissions. The host owns users, titles, rights and
// rendering; hooks only query these interfaces and act on the answers.
package host

import "net/url"

// User is the acting user as seen by the host.
type User interface {
	Name() string
	IsAnonymous() bool
}

// Title identifies a page.
type Title interface {
	// Text returns the prefixed page name, e.g. "Main Page" or "Special:RecentChanges".
	Text() string
	// LocalURL returns the path of the page's default view.
	LocalURL() string
	IsSpecialPage() bool
	Exists() bool
}

// PermissionManager answers permission queries. Results are never cached by hooks.
type PermissionManager interface {
	// UserCan reports whether user may perform action on title.
	UserCan(action string, user User, title Title) bool
	// UserPermissions returns every right granted to user.
	UserPermissions(user User, title Title) []string
}

// MessageLocalizer resolves message keys to localized text.
type MessageLocalizer interface {
	Msg(key string, params ...any) *Message
}

// SkinTemplate is the rendering environment of the current page.
type SkinTemplate interface {
	Title() Title
}

// EditPage is the edit form the host is about to render.
type EditPage interface {
	Title() Title
	// ContextTitle is the page the form was requested from.
	ContextTitle() Title
}

// OutputPage is the response under construction.
type OutputPage interface {
	Redirect(url string)
	RedirectURL() string
}

// Message is a localized message.
type Message struct {
	Key    string `json:"key"`
	Text   string `json:"text"`
	Params []any  `json:"params,omitempty"`
}

// String returns the message text, or the key wrapped in angle quotes when no text is known.
func (m *Message) String() string {
	if m == nil {
		return ""
	}
	if m.Text == "" {
		return "⧼" + m.Key + "⧽"
	}
	return m.Text
}

// RequestContext carries everything a hook needs to know about the inbound request.
type RequestContext struct {
	User   User
	Title  Title
	Params url.Values
}

// NewRequestContext builds a context, tolerating nil params.
func NewRequestContext(user User, title Title, params url.Values) *RequestContext {
	if params == nil {
		params = url.Values{}
	}
	return &RequestContext{User: user, Title: title, Params: params}
}

// Has reports whether the query parameter is present, even with an empty value.
func (rc *RequestContext) Has(name string) bool {
	if rc == nil || rc.Params == nil {
		return false
	}
	_, ok := rc.Params[name]
	return ok
}

// Get returns the first value of the query parameter.
func (rc *RequestContext) Get(name string) string {
	if rc == nil || rc.Params == nil {
		return ""
	}
	return rc.Params.Get(name)
}

// Action returns the requested action name, defaulting to "view".
func (rc *RequestContext) Action() string {
	var a string
	if rc != nil {
		a = ActionParam(rc.Params)
	}
	if a == "" {
		return "view"
	}
	return a
}

// ActionParam returns the raw action parameter. Hosts choose what to serve and gates choose
// what to refuse from this one value, so it is never trimmed or otherwise normalised.
// With repeated keys it is the first value.
func ActionParam(params url.Values) string {
	return params.Get("action")
}
