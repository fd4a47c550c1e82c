package wiki

import (
	"net/url"
	"slices"
	"strings"

	"github.com/klauern/source-protection/internal/host"
)

// User is a resolved site user.
type User struct {
	name   string
	groups []string
}

var _ host.User = (*User)(nil)

// Name returns the user name, empty for anonymous users.
func (u *User) Name() string { return u.name }

// IsAnonymous reports whether the request carried no user.
func (u *User) IsAnonymous() bool { return u.name == "" }

// Groups returns the explicitly assigned groups.
func (u *User) Groups() []string { return slices.Clone(u.groups) }

// Page is a resolved title, which may not exist.
type Page struct {
	text    string
	special bool
	exists  bool
	spec    PageSpec
}

var _ host.Title = (*Page)(nil)

// Text returns the display title.
func (p *Page) Text() string { return p.text }

// LocalURL returns the view path of the page.
func (p *Page) LocalURL() string {
	return "/wiki/" + url.PathEscape(strings.ReplaceAll(p.text, " ", "_"))
}

// IsSpecialPage reports whether the page is generated by the wiki.
func (p *Page) IsSpecialPage() bool { return p.special }

// Exists reports whether the page is declared. Special pages always exist.
func (p *Page) Exists() bool { return p.exists || p.special }

// Content returns the page source.
func (p *Page) Content() string { return p.spec.Content }

// History returns the page revisions, newest first as declared.
func (p *Page) History() []Revision { return slices.Clone(p.spec.History) }

// NewSkin returns the rendering environment for title.
func NewSkin(title host.Title) host.SkinTemplate { return skin{title: title} }

type skin struct {
	title host.Title
}

func (s skin) Title() host.Title { return s.title }

// NewEditPage returns the edit form for title. A nil context means the form was requested
// from the page itself.
func NewEditPage(title, context host.Title) host.EditPage {
	return editPage{title: title, context: context}
}

type editPage struct {
	title   host.Title
	context host.Title
}

func (e editPage) Title() host.Title { return e.title }

func (e editPage) ContextTitle() host.Title {
	if e.context == nil {
		return e.title
	}
	return e.context
}

// Output collects the response the hooks may redirect.
type Output struct {
	location string
}

var _ host.OutputPage = (*Output)(nil)

// Redirect sets the redirect target.
func (o *Output) Redirect(url string) { o.location = url }

// RedirectURL returns the redirect target, empty if none.
func (o *Output) RedirectURL() string { return o.location }

// NavigationFor builds the tabs a skin would show for title before hooks run.
func (s *Store) NavigationFor(user host.User, title *Page) host.NavigationLinks {
	base := title.LocalURL()
	links := host.NavigationLinks{
		host.SectionNamespaces: {
			"main": {Text: "Page", Href: base, Class: "selected"},
		},
		host.SectionViews: {
			"view":    {Text: "Read", Href: base},
			"history": {Text: "View history", Href: base + "?action=history"},
		},
		host.SectionActions: {
			"watch": {Text: "Watch", Href: base + "?action=watch"},
		},
	}
	if title.IsSpecialPage() {
		return host.NavigationLinks{
			host.SectionNamespaces: {"special": {Text: "Special page", Href: base}},
		}
	}
	if s.UserCan("edit", user, title) {
		links[host.SectionViews]["edit"] = host.Link{Text: "Edit", Href: base + "?action=edit"}
		links[host.SectionViews]["form_edit"] = host.Link{Text: "Edit with form", Href: base + "?action=formedit"}
	} else {
		links[host.SectionViews]["viewsource"] = host.Link{Text: "View source", Href: base + "?action=edit"}
		links[host.SectionViews]["form_edit"] = host.Link{Text: "View form", Href: base + "?action=formedit"}
	}
	if s.UserCan("delete", user, title) {
		links[host.SectionActions]["delete"] = host.Link{Text: "Delete", Href: base + "?action=delete"}
	}
	return links
}
