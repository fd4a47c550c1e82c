package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/host"
	"github.com/klauern/source-protection/internal/wiki"
	"github.com/urfave/cli/v3"
)

type checkOptions struct {
	User    string
	Page    string
	Action  string
	Diff    string
	HasDiff bool
}

func (o checkOptions) params() url.Values {
	params := url.Values{}
	if o.Action != "" {
		params.Set("action", o.Action)
	}
	if o.HasDiff {
		params.Set("diff", o.Diff)
	}
	return params
}

// NewCheckCmd creates the check command
func NewCheckCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Run the hooks against one request",
		Description: `Resolve the user and page in a site fixture, run the action gate and, when the
request is allowed, the navigation filter. Prints what each hook decided.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "site", Aliases: []string{"s"}, Usage: "Site fixture (YAML)"},
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User name; empty for anonymous"},
			&cli.StringFlag{Name: "page", Aliases: []string{"p"}, Usage: "Page title", Required: true},
			&cli.StringFlag{Name: "action", Aliases: []string{"a"}, Usage: "Value of the action parameter"},
			&cli.StringFlag{Name: "diff", Usage: "Value of the diff parameter"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			settings, err := config.LoadEffectiveSettings()
			if err != nil {
				return fmt.Errorf("error loading settings: %v", err)
			}
			store, err := loadSite(cmd.String("site"), settings)
			if err != nil {
				return err
			}
			rt, err := NewRuntime(settings, store, nil)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			return runCheck(writer(cmd), rt, checkOptions{
				User:    cmd.String("user"),
				Page:    cmd.String("page"),
				Action:  cmd.String("action"),
				Diff:    cmd.String("diff"),
				HasDiff: cmd.IsSet("diff"),
			})
		},
	}
}

func runCheck(w io.Writer, rt *Runtime, opts checkOptions) error {
	user := rt.Store.User(opts.User)
	title := rt.Store.Title(opts.Page)
	rc := host.NewRequestContext(user, title, opts.params())

	who := user.Name()
	if user.IsAnonymous() {
		who = "(anonymous)"
	} else if groups := user.Groups(); len(groups) > 0 {
		who += " (" + strings.Join(groups, ", ") + ")"
	}
	fmt.Fprintf(w, "Page:    %s", title.Text())
	switch {
	case title.IsSpecialPage():
		fmt.Fprint(w, " (special)")
	case !title.Exists():
		fmt.Fprint(w, " (missing)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "User:    %s [%s]\n", who, strings.Join(rt.Store.UserPermissions(user, title), ", "))
	fmt.Fprintf(w, "Request: %s\n", describeParams(rc.Params))

	res := rt.Dispatcher.UserCan(rc, title, user, rc.Action())
	if !res.Allowed() {
		fmt.Fprintf(w, "Gate:    denied (%s): %s\n", res.Reason, res.Message)
		return nil
	}
	fmt.Fprintln(w, "Gate:    allowed")

	links := rt.Store.NavigationFor(user, title)
	rt.Dispatcher.SkinTemplateNavigation(rc, wiki.NewSkin(title), links)
	fmt.Fprintf(w, "Views:   %s\n", strings.Join(links.IDs(host.SectionViews), ", "))

	if rc.Action() == "edit" && !rt.Store.UserCan("edit", user, title) {
		out := rt.Dispatcher.ShowReadOnlyForm(rc, wiki.NewEditPage(title, nil), &wiki.Output{})
		if loc := out.RedirectURL(); loc != "" {
			fmt.Fprintf(w, "Form:    redirect to %s\n", loc)
		} else {
			fmt.Fprintln(w, "Form:    read-only")
		}
	}
	return nil
}

func describeParams(params url.Values) string {
	if len(params) == 0 {
		return "view"
	}
	return params.Encode()
}
