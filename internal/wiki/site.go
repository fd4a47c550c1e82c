// Package wiki is a small in-memory wiki host. It implements every host interface so the
// built-in hooks can be exercised end to end, from the CLI and over HTTP.
package wiki

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/host"
	"gopkg.in/yaml.v3"
)

// SpecialPrefix marks generated pages such as Special:RecentChanges.
const SpecialPrefix = "Special:"

// AnonymousGroup is granted to every user, named or not.
const AnonymousGroup = "*"

// DefaultMessages is the message catalog used when a site does not override a key.
var DefaultMessages = map[string]string{
	constants.MsgNoAccess: "You do not have permission to view the source of this page.",
	"permissionserrors":   "Permission error",
	"noarticletext":       "There is currently no text in this page.",
	"nosuchaction":        "The action specified by the URL is not recognized by the wiki.",
}

// Site is the on-disk fixture describing users, rights and pages.
type Site struct {
	Name     string              `yaml:"name,omitempty"`
	Groups   map[string][]string `yaml:"groups"`
	Users    []UserSpec          `yaml:"users"`
	Pages    []PageSpec          `yaml:"pages"`
	Messages map[string]string   `yaml:"messages,omitempty"`
}

// UserSpec declares a user and the groups they belong to.
type UserSpec struct {
	Name   string   `yaml:"name"`
	Groups []string `yaml:"groups"`
}

// PageSpec declares a page. EditGroups restricts editing to members of those groups.
type PageSpec struct {
	Title      string     `yaml:"title"`
	Content    string     `yaml:"content"`
	EditGroups []string   `yaml:"editGroups,omitempty"`
	History    []Revision `yaml:"history,omitempty"`
}

// Revision is one entry of a page history.
type Revision struct {
	ID      int    `yaml:"id" json:"id"`
	User    string `yaml:"user" json:"user"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// LoadSite reads a YAML site fixture.
func LoadSite(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site %s: %w", path, err)
	}
	return ParseSite(data)
}

// ParseSite builds a store from YAML fixture data.
func ParseSite(data []byte) (*Store, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site: %w", err)
	}
	return NewStore(site)
}

// Store holds a site in memory. It is read-only after construction and safe for concurrent
// use.
type Store struct {
	name     string
	groups   map[string][]string
	users    map[string][]string
	pages    map[string]PageSpec
	messages map[string]string
}

var (
	_ host.PermissionManager = (*Store)(nil)
	_ host.MessageLocalizer  = (*Store)(nil)
)

// NewStore validates site and indexes it.
func NewStore(site Site) (*Store, error) {
	s := &Store{
		name:     site.Name,
		groups:   make(map[string][]string, len(site.Groups)),
		users:    make(map[string][]string, len(site.Users)),
		pages:    make(map[string]PageSpec, len(site.Pages)),
		messages: make(map[string]string, len(DefaultMessages)+len(site.Messages)),
	}
	for g, rights := range site.Groups {
		s.groups[g] = slices.Clone(rights)
	}
	for _, u := range site.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("user with empty name")
		}
		if _, dup := s.users[u.Name]; dup {
			return nil, fmt.Errorf("duplicate user %q", u.Name)
		}
		for _, g := range u.Groups {
			if _, ok := s.groups[g]; !ok {
				return nil, fmt.Errorf("user %q references unknown group %q", u.Name, g)
			}
		}
		s.users[u.Name] = slices.Clone(u.Groups)
	}
	for _, p := range site.Pages {
		title := NormalizeTitle(p.Title)
		if title == "" {
			return nil, fmt.Errorf("page with empty title")
		}
		if strings.HasPrefix(title, SpecialPrefix) {
			return nil, fmt.Errorf("page %q: special pages cannot be declared", title)
		}
		if _, dup := s.pages[title]; dup {
			return nil, fmt.Errorf("duplicate page %q", title)
		}
		p.Title = title
		s.pages[title] = p
	}
	for k, v := range DefaultMessages {
		s.messages[k] = v
	}
	for k, v := range site.Messages {
		s.messages[k] = v
	}
	return s, nil
}

// Name returns the site name.
func (s *Store) Name() string { return s.name }

// NormalizeTitle turns a URL form title ("Main_Page") into its display form ("Main Page").
func NormalizeTitle(t string) string {
	return strings.TrimSpace(strings.ReplaceAll(t, "_", " "))
}

// User resolves a user name. An empty name is the anonymous user; unknown names are treated
// as logged in users with no groups.
func (s *Store) User(name string) *User {
	name = strings.TrimSpace(name)
	return &User{name: name, groups: s.users[name]}
}

// Title resolves a page name in either URL or display form.
func (s *Store) Title(text string) *Page {
	text = NormalizeTitle(text)
	p, ok := s.pages[text]
	return &Page{
		text:    text,
		special: strings.HasPrefix(text, SpecialPrefix),
		exists:  ok,
		spec:    p,
	}
}

// Pages returns the declared page titles in sorted order.
func (s *Store) Pages() []string {
	titles := make([]string, 0, len(s.pages))
	for t := range s.pages {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// UserPermissions returns the union of rights granted by the user's groups, including the
// anonymous group. Page-level restrictions are not reflected here.
func (s *Store) UserPermissions(user host.User, _ host.Title) []string {
	seen := map[string]bool{}
	var rights []string
	for _, g := range s.groupsOf(user) {
		for _, r := range s.groups[g] {
			if !seen[r] {
				seen[r] = true
				rights = append(rights, r)
			}
		}
	}
	sort.Strings(rights)
	return rights
}

// UserCan reports whether user holds the action right and, for edits, belongs to one of the
// page's edit groups when the page declares any.
func (s *Store) UserCan(action string, user host.User, title host.Title) bool {
	if !slices.Contains(s.UserPermissions(user, title), action) {
		return false
	}
	if action != "edit" || title == nil {
		return true
	}
	page, ok := s.pages[NormalizeTitle(title.Text())]
	if !ok || len(page.EditGroups) == 0 {
		return true
	}
	groups := s.groupsOf(user)
	for _, g := range page.EditGroups {
		if slices.Contains(groups, g) {
			return true
		}
	}
	return false
}

// Msg resolves key against the site catalog. $1, $2, ... are replaced by params.
func (s *Store) Msg(key string, params ...any) *host.Message {
	text := s.messages[key]
	for i, p := range params {
		text = strings.ReplaceAll(text, fmt.Sprintf("$%d", i+1), fmt.Sprint(p))
	}
	return &host.Message{Key: key, Text: text, Params: params}
}

func (s *Store) groupsOf(user host.User) []string {
	groups := []string{AnonymousGroup}
	if user == nil || user.IsAnonymous() {
		return groups
	}
	return append(groups, s.users[user.Name()]...)
}
