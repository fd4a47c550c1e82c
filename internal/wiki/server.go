package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/core"
	"github.com/klauern/source-protection/internal/host"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server serves wiki pages over HTTP with the hook dispatcher wired into every request.
type Server struct {
	store      *Store
	dispatcher *core.Dispatcher
	log        *logrus.Logger
	echo       *echo.Echo
	requests   *prometheus.CounterVec
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Key   string `json:"key"`
}

// PageView is the body of a page view.
type PageView struct {
	Title   string               `json:"title"`
	Content string               `json:"content"`
	Special bool                 `json:"special,omitempty"`
	Diff    string               `json:"diff,omitempty"`
	Links   host.NavigationLinks `json:"links"`
}

// HistoryView is the body of action=history.
type HistoryView struct {
	Title     string     `json:"title"`
	Revisions []Revision `json:"revisions"`
}

// EditForm is the body of action=edit for users allowed to edit.
type EditForm struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ReadOnly bool   `json:"readOnly,omitempty"`
}

// NewServer builds the HTTP routes. reg receives the request counter and backs /metrics;
// a nil reg uses a private registry.
func NewServer(store *Store, dispatcher *core.Dispatcher, log *logrus.Logger, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		store:      store,
		dispatcher: dispatcher,
		log:        log,
		echo:       echo.New(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Wiki HTTP requests by action and status code.",
		}, []string{"action", "code"}),
	}
	reg.MustRegister(s.requests)

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.logRequests)

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.echo.GET("/wiki/:title", s.countRequests(s.getPage))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.WithField("addr", addr).Info("wiki server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) getPage(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("title"))
	if err != nil {
		name = c.Param("title")
	}
	title := s.store.Title(name)
	user := s.store.User(c.Request().Header.Get(constants.UserHeader))
	rc := host.NewRequestContext(user, title, c.QueryParams())
	action := rc.Action()

	if res := s.dispatcher.UserCan(rc, title, user, action); !res.Allowed() {
		return s.deny(c, res.Message)
	}
	if !s.store.UserCan("read", user, title) {
		return s.deny(c, s.store.Msg("permissionserrors"))
	}
	if !title.Exists() {
		msg := s.store.Msg("noarticletext")
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: msg.String(), Key: msg.Key})
	}

	switch action {
	case "view":
		links := s.store.NavigationFor(user, title)
		if res := s.dispatcher.SkinTemplateNavigation(rc, skin{title: title}, links); !res.Allowed() {
			return s.deny(c, res.Message)
		}
		return c.JSON(http.StatusOK, PageView{
			Title:   title.Text(),
			Content: title.Content(),
			Special: title.IsSpecialPage(),
			Diff:    rc.Get("diff"),
			Links:   links,
		})
	case "raw":
		return c.String(http.StatusOK, title.Content())
	case "history":
		return c.JSON(http.StatusOK, HistoryView{Title: title.Text(), Revisions: title.History()})
	case "edit":
		if s.store.UserCan("edit", user, title) {
			return c.JSON(http.StatusOK, EditForm{Title: title.Text(), Content: title.Content()})
		}
		out := s.dispatcher.ShowReadOnlyForm(rc, editPage{title: title}, &Output{})
		if loc := out.RedirectURL(); loc != "" {
			return c.Redirect(http.StatusFound, loc)
		}
		return c.JSON(http.StatusOK, EditForm{Title: title.Text(), Content: title.Content(), ReadOnly: true})
	default:
		msg := s.store.Msg("nosuchaction")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg.String(), Key: msg.Key})
	}
}

func (s *Server) deny(c echo.Context, msg *host.Message) error {
	if msg == nil {
		msg = s.store.Msg("permissionserrors")
	}
	return c.JSON(http.StatusForbidden, ErrorResponse{Error: msg.String(), Key: msg.Key})
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		code := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		s.requests.WithLabelValues(actionLabel(c.QueryParam("action")), strconv.Itoa(code)).Inc()
		return err
	}
}

// actionLabel keeps the metric's label set bounded.
func actionLabel(action string) string {
	switch action {
	case "":
		return "view"
	case "view", "raw", "history", "edit":
		return action
	}
	return "other"
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.log.WithFields(logrus.Fields{
			"method":   c.Request().Method,
			"path":     c.Request().URL.Path,
			"query":    c.Request().URL.RawQuery,
			"status":   c.Response().Status,
			"user":     c.Request().Header.Get(constants.UserHeader),
			"duration": time.Since(start).String(),
		}).Debug("request")
		return err
	}
}
