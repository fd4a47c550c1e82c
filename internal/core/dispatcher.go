package core

import (
	"fmt"

	"github.com/klauern/source-protection/internal/host"
)

type entry[T any] struct {
	key     string
	handler T
}

// Dispatcher is the typed hook-dispatch table the host calls into. It is built once and is
// read-only afterwards, so it is safe for concurrent requests.
type Dispatcher struct {
	navigation []entry[SkinTemplateNavigationHandler]
	userCan    []entry[UserCanHandler]
	readOnly   []entry[ShowReadOnlyFormHandler]
	metrics    *Metrics
}

// NewDispatcher files enabled hooks under their hook point. A hook whose type does not
// implement the handler interface for its point is a wiring error.
func NewDispatcher(hooks []Hook, metrics *Metrics) (*Dispatcher, error) {
	d := &Dispatcher{metrics: metrics}
	for _, h := range hooks {
		if !h.IsEnabled() {
			continue
		}
		if err := d.add(h); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dispatcher) add(h Hook) error {
	switch h.Point() {
	case SkinTemplateNavigationPoint:
		handler, ok := h.(SkinTemplateNavigationHandler)
		if !ok {
			return fmt.Errorf("hook '%s' does not handle %s", h.Key(), h.Point())
		}
		d.navigation = append(d.navigation, entry[SkinTemplateNavigationHandler]{h.Key(), handler})
	case UserCanPoint:
		handler, ok := h.(UserCanHandler)
		if !ok {
			return fmt.Errorf("hook '%s' does not handle %s", h.Key(), h.Point())
		}
		d.userCan = append(d.userCan, entry[UserCanHandler]{h.Key(), handler})
	case ShowReadOnlyFormPoint:
		handler, ok := h.(ShowReadOnlyFormHandler)
		if !ok {
			return fmt.Errorf("hook '%s' does not handle %s", h.Key(), h.Point())
		}
		d.readOnly = append(d.readOnly, entry[ShowReadOnlyFormHandler]{h.Key(), handler})
	default:
		return fmt.Errorf("hook '%s' has unknown hook point '%s'", h.Key(), h.Point())
	}
	return nil
}

// SkinTemplateNavigation runs every navigation handler against links. The first denial stops
// the chain.
func (d *Dispatcher) SkinTemplateNavigation(rc *host.RequestContext, skin host.SkinTemplate, links host.NavigationLinks) Result {
	for _, e := range d.navigation {
		res := e.handler.OnSkinTemplateNavigation(rc, skin, links)
		d.metrics.Observe(e.key, res.Decision)
		if !res.Allowed() {
			return res
		}
	}
	return Continue()
}

// UserCan runs the action gates. The first denial wins and carries its message.
func (d *Dispatcher) UserCan(rc *host.RequestContext, title host.Title, user host.User, action string) Result {
	for _, e := range d.userCan {
		res := e.handler.OnUserCan(rc, title, user, action)
		d.metrics.Observe(e.key, res.Decision)
		if !res.Allowed() {
			return res
		}
	}
	return Continue()
}

// ShowReadOnlyForm threads out through every read-only form handler.
func (d *Dispatcher) ShowReadOnlyForm(rc *host.RequestContext, edit host.EditPage, out host.OutputPage) host.OutputPage {
	for _, e := range d.readOnly {
		before := out.RedirectURL()
		out = e.handler.OnShowReadOnlyForm(rc, edit, out)
		if out.RedirectURL() != before {
			d.metrics.Observe(e.key, DecisionRedirect)
		} else {
			d.metrics.Observe(e.key, DecisionContinue)
		}
	}
	return out
}

// Keys returns the hook keys filed under point, in dispatch order.
func (d *Dispatcher) Keys(point HookPoint) []string {
	var keys []string
	switch point {
	case SkinTemplateNavigationPoint:
		for _, e := range d.navigation {
			keys = append(keys, e.key)
		}
	case UserCanPoint:
		for _, e := range d.userCan {
			keys = append(keys, e.key)
		}
	case ShowReadOnlyFormPoint:
		for _, e := range d.readOnly {
			keys = append(keys, e.key)
		}
	}
	return keys
}
