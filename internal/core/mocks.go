package core

import (
	"slices"
	"strings"
	"sync"

	"github.com/klauern/source-protection/internal/host"
	"github.com/klauern/source-protection/internal/policy"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// FakeUser implements host.User for testing
type FakeUser string

// Name returns the user name
func (u FakeUser) Name() string { return string(u) }

// IsAnonymous reports whether the user has no name
func (u FakeUser) IsAnonymous() bool { return u == "" }

// FakeTitle implements host.Title for testing
type FakeTitle struct {
	Name    string
	Special bool
	Missing bool
}

// Text returns the page name
func (t *FakeTitle) Text() string { return t.Name }

// LocalURL returns the page view path
func (t *FakeTitle) LocalURL() string { return "/wiki/" + strings.ReplaceAll(t.Name, " ", "_") }

// IsSpecialPage reports whether the page is a special page
func (t *FakeTitle) IsSpecialPage() bool { return t.Special }

// Exists reports whether the page exists
func (t *FakeTitle) Exists() bool { return !t.Missing }

// FakePermissions implements host.PermissionManager from a fixed rights table and records
// every query.
type FakePermissions struct {
	// Rights maps user name to granted rights
	Rights map[string][]string
	// Denied lists "user:page" pairs whose page-level UserCan is false despite rights
	Denied []string

	mu      sync.Mutex
	Queries []string
}

// NewFakePermissions creates a fake with the given rights table
func NewFakePermissions(rights map[string][]string) *FakePermissions {
	return &FakePermissions{Rights: rights}
}

// UserCan reports whether the user holds action and is not denied on the page
func (p *FakePermissions) UserCan(action string, user host.User, title host.Title) bool {
	p.record("can:" + action)
	if slices.Contains(p.Denied, user.Name()+":"+title.Text()) {
		return false
	}
	return slices.Contains(p.Rights[user.Name()], action)
}

// UserPermissions returns the user's rights
func (p *FakePermissions) UserPermissions(user host.User, _ host.Title) []string {
	p.record("rights")
	return slices.Clone(p.Rights[user.Name()])
}

func (p *FakePermissions) record(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Queries = append(p.Queries, q)
}

// QueryCount returns how many permission queries were made
func (p *FakePermissions) QueryCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Queries)
}

// FakeMessages implements host.MessageLocalizer from a map
type FakeMessages map[string]string

// Msg resolves key to its text
func (m FakeMessages) Msg(key string, params ...any) *host.Message {
	return &host.Message{Key: key, Text: m[key], Params: params}
}

// FakeSkin implements host.SkinTemplate
type FakeSkin struct {
	T host.Title
}

// Title returns the rendered page
func (s FakeSkin) Title() host.Title { return s.T }

// FakeEditPage implements host.EditPage
type FakeEditPage struct {
	T       host.Title
	Context host.Title
}

// Title returns the edited page
func (e FakeEditPage) Title() host.Title { return e.T }

// ContextTitle returns the page the form was requested from
func (e FakeEditPage) ContextTitle() host.Title {
	if e.Context == nil {
		return e.T
	}
	return e.Context
}

// FakeOutput implements host.OutputPage
type FakeOutput struct {
	Location string
	Body     string
}

// Redirect records the redirect target
func (o *FakeOutput) Redirect(url string) { o.Location = url }

// RedirectURL returns the redirect target
func (o *FakeOutput) RedirectURL() string { return o.Location }

// TestHookContext creates a context suitable for testing
func TestHookContext(settingsChecker func(string) bool) *HookContext {
	if settingsChecker == nil {
		settingsChecker = func(string) bool { return true }
	}

	logger, _ := logtest.NewNullLogger()
	return &HookContext{
		Permissions:     NewFakePermissions(nil),
		Messages:        FakeMessages{},
		Policy:          policy.Default(),
		SettingsChecker: settingsChecker,
		Logger:          logger,
	}
}

// TestHookContextWithLog creates a testing context with logging enabled and returns the hook
// capturing every entry.
func TestHookContextWithLog(settingsChecker func(string) bool) (*HookContext, *logtest.Hook) {
	ctx := TestHookContext(settingsChecker)
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ctx.Logger = logger
	ctx.LoggingEnabled = true
	return ctx, hook
}
