package hooks

import (
	"testing"

	"github.com/klauern/source-protection/internal/core"
	"github.com/klauern/source-protection/internal/host"
)

func newReadOnlyFormFixture(rights map[string][]string) *ReadOnlyFormHook {
	ctx := core.TestHookContext(nil)
	ctx.Permissions = core.NewFakePermissions(rights)
	return NewReadOnlyFormHook(ctx).(*ReadOnlyFormHook)
}

func TestReadOnlyFormHook(t *testing.T) {
	hook := newReadOnlyFormFixture(nil)
	if hook.Key() != "read-only-form" {
		t.Errorf("Expected key 'read-only-form', got '%s'", hook.Key())
	}
	if hook.Point() != core.ShowReadOnlyFormPoint {
		t.Errorf("Expected ShowReadOnlyForm point, got '%s'", hook.Point())
	}
}

func TestReadOnlyFormRedirectsIffCannotEdit(t *testing.T) {
	rights := map[string][]string{"editor": {"edit"}, "reader": {"read"}}
	page := &core.FakeTitle{Name: "Main Page"}
	context := &core.FakeTitle{Name: "Landing Page"}

	testCases := []struct {
		name     string
		user     string
		edit     core.FakeEditPage
		wantLoc  string
		wantSame bool
	}{
		{"editor sees the form", "editor", core.FakeEditPage{T: page, Context: context}, "", true},
		{"reader redirected to context title", "reader", core.FakeEditPage{T: page, Context: context}, "/wiki/Landing_Page", true},
		{"reader redirected to page when context is the page", "reader", core.FakeEditPage{T: page}, "/wiki/Main_Page", true},
		{"anonymous redirected", "", core.FakeEditPage{T: page}, "/wiki/Main_Page", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hook := newReadOnlyFormFixture(rights)
			out := &core.FakeOutput{Body: "form"}
			rc := host.NewRequestContext(core.FakeUser(tc.user), page, nil)

			got := hook.OnShowReadOnlyForm(rc, tc.edit, out)

			if tc.wantSame && got != host.OutputPage(out) {
				t.Error("Expected the same output page to be returned")
			}
			if got.RedirectURL() != tc.wantLoc {
				t.Errorf("Expected redirect %q, got %q", tc.wantLoc, got.RedirectURL())
			}
			if out.Body != "form" {
				t.Error("Expected body to be untouched")
			}
		})
	}
}

func TestReadOnlyFormPageLevelDenial(t *testing.T) {
	ctx := core.TestHookContext(nil)
	perms := core.NewFakePermissions(map[string][]string{"editor": {"edit"}})
	perms.Denied = []string{"editor:Locked"}
	ctx.Permissions = perms
	hook := NewReadOnlyFormHook(ctx).(*ReadOnlyFormHook)
	locked := &core.FakeTitle{Name: "Locked"}

	out := hook.OnShowReadOnlyForm(host.NewRequestContext(core.FakeUser("editor"), locked, nil), core.FakeEditPage{T: locked}, &core.FakeOutput{})

	if out.RedirectURL() != "/wiki/Locked" {
		t.Errorf("Expected redirect for protected page, got %q", out.RedirectURL())
	}
}
