package core

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/klauern/source-protection/internal/host"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// denyActionHook refuses one action name
type denyActionHook struct {
	*BaseHook
	action string
}

func (h *denyActionHook) OnUserCan(rc *host.RequestContext, _ host.Title, _ host.User, _ string) Result {
	if rc.Get("action") == h.action {
		return Deny(h.Context().Messages.Msg("denied-"+h.action), "action")
	}
	return Continue()
}

// stripHook removes one view id
type stripHook struct {
	*BaseHook
	id string
}

func (h *stripHook) OnSkinTemplateNavigation(_ *host.RequestContext, _ host.SkinTemplate, links host.NavigationLinks) Result {
	if links.Remove(host.SectionViews, h.id) {
		return Result{Decision: DecisionFiltered}
	}
	return Continue()
}

// redirectHook always redirects to the context title
type redirectHook struct {
	*BaseHook
}

func (h *redirectHook) OnShowReadOnlyForm(_ *host.RequestContext, edit host.EditPage, out host.OutputPage) host.OutputPage {
	out.Redirect(edit.ContextTitle().LocalURL())
	return out
}

func TestNewDispatcherFilesHooksByPoint(t *testing.T) {
	ctx := TestHookContext(nil)
	hooks := []Hook{
		&stripHook{BaseHook: NewBaseHook("strip", "Strip", "", SkinTemplateNavigationPoint, ctx), id: "viewsource"},
		&denyActionHook{BaseHook: NewBaseHook("deny", "Deny", "", UserCanPoint, ctx), action: "raw"},
		&redirectHook{BaseHook: NewBaseHook("redirect", "Redirect", "", ShowReadOnlyFormPoint, ctx)},
	}

	d, err := NewDispatcher(hooks, nil)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}

	if got := d.Keys(SkinTemplateNavigationPoint); !reflect.DeepEqual(got, []string{"strip"}) {
		t.Errorf("Unexpected navigation keys %v", got)
	}
	if got := d.Keys(UserCanPoint); !reflect.DeepEqual(got, []string{"deny"}) {
		t.Errorf("Unexpected user-can keys %v", got)
	}
	if got := d.Keys(ShowReadOnlyFormPoint); !reflect.DeepEqual(got, []string{"redirect"}) {
		t.Errorf("Unexpected read-only keys %v", got)
	}
}

func TestNewDispatcherSkipsDisabledHooks(t *testing.T) {
	ctx := TestHookContext(func(key string) bool { return key != "deny" })
	hooks := []Hook{
		&denyActionHook{BaseHook: NewBaseHook("deny", "Deny", "", UserCanPoint, ctx), action: "raw"},
	}

	d, err := NewDispatcher(hooks, nil)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}
	rc := host.NewRequestContext(FakeUser("bob"), nil, url.Values{"action": {"raw"}})
	if !d.UserCan(rc, &FakeTitle{Name: "P"}, rc.User, "raw").Allowed() {
		t.Error("Expected disabled gate not to run")
	}
}

func TestNewDispatcherRejectsMismatchedHook(t *testing.T) {
	ctx := TestHookContext(nil)
	// testHook only handles UserCan
	bad := &testHook{BaseHook: NewBaseHook("bad", "Bad", "", ShowReadOnlyFormPoint, ctx)}

	_, err := NewDispatcher([]Hook{bad}, nil)
	if err == nil || !strings.Contains(err.Error(), "does not handle ShowReadOnlyForm") {
		t.Errorf("Expected mismatch error, got %v", err)
	}

	unknown := &testHook{BaseHook: NewBaseHook("odd", "Odd", "", HookPoint("Nope"), ctx)}
	if _, err := NewDispatcher([]Hook{unknown}, nil); err == nil {
		t.Error("Expected unknown hook point error")
	}
}

func TestDispatcherUserCanFirstDenialWins(t *testing.T) {
	ctx := TestHookContext(nil)
	ctx.Messages = FakeMessages{"denied-raw": "no raw", "denied-info": "no info"}
	hooks := []Hook{
		&denyActionHook{BaseHook: NewBaseHook("a", "A", "", UserCanPoint, ctx), action: "raw"},
		&denyActionHook{BaseHook: NewBaseHook("b", "B", "", UserCanPoint, ctx), action: "info"},
	}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	d, err := NewDispatcher(hooks, metrics)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}

	title := &FakeTitle{Name: "P"}
	rc := host.NewRequestContext(FakeUser("bob"), title, url.Values{"action": {"raw"}})
	res := d.UserCan(rc, title, rc.User, "raw")
	if res.Allowed() || res.Message.Text != "no raw" {
		t.Errorf("Expected raw denial, got %+v", res)
	}
	if got := testutil.ToFloat64(metrics.Decisions.WithLabelValues("a", "deny")); got != 1 {
		t.Errorf("Expected one deny for a, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.Decisions.WithLabelValues("b", "deny")); got != 0 {
		t.Errorf("Expected b not to run after denial, got %v", got)
	}

	rc = host.NewRequestContext(FakeUser("bob"), title, url.Values{"action": {"info"}})
	res = d.UserCan(rc, title, rc.User, "info")
	if res.Allowed() || res.Message.Text != "no info" {
		t.Errorf("Expected info denial, got %+v", res)
	}

	rc = host.NewRequestContext(FakeUser("bob"), title, nil)
	if !d.UserCan(rc, title, rc.User, "view").Allowed() {
		t.Error("Expected view to be allowed")
	}
	if got := testutil.ToFloat64(metrics.Decisions.WithLabelValues("b", "continue")); got != 1 {
		t.Errorf("Expected one continue for b, got %v", got)
	}
}

func TestDispatcherNavigationAndReadOnlyForm(t *testing.T) {
	ctx := TestHookContext(nil)
	metrics := NewMetrics(nil)
	d, err := NewDispatcher([]Hook{
		&stripHook{BaseHook: NewBaseHook("strip", "Strip", "", SkinTemplateNavigationPoint, ctx), id: "viewsource"},
		&redirectHook{BaseHook: NewBaseHook("redirect", "Redirect", "", ShowReadOnlyFormPoint, ctx)},
	}, metrics)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}

	links := host.NavigationLinks{host.SectionViews: {"viewsource": {}, "view": {}}}
	title := &FakeTitle{Name: "Main Page"}
	if res := d.SkinTemplateNavigation(nil, FakeSkin{T: title}, links); !res.Allowed() {
		t.Error("Expected navigation to continue")
	}
	if links.Has(host.SectionViews, "viewsource") {
		t.Error("Expected viewsource to be stripped")
	}
	if got := testutil.ToFloat64(metrics.Decisions.WithLabelValues("strip", "filtered")); got != 1 {
		t.Errorf("Expected one filtered decision, got %v", got)
	}

	out := d.ShowReadOnlyForm(nil, FakeEditPage{T: title}, &FakeOutput{})
	if out.RedirectURL() != "/wiki/Main_Page" {
		t.Errorf("Expected redirect to page, got %q", out.RedirectURL())
	}
	if got := testutil.ToFloat64(metrics.Decisions.WithLabelValues("redirect", "redirect")); got != 1 {
		t.Errorf("Expected one redirect decision, got %v", got)
	}
}

func TestNilMetricsObserve(t *testing.T) {
	var m *Metrics
	m.Observe("hook", DecisionDeny) // must not panic
}
