package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/core"
	"github.com/urfave/cli/v3"
)

// NewListCmd creates the list command
func NewListCmd(hookKeys func() []string, createHook func(string) (core.Hook, error)) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List registered hooks",
		Description: `List every built-in hook with the host hook point it runs at and whether settings enable it.

Use --point to show only the hooks bound to one hook point. Host aliases such as
"getUserPermissionsErrors" are accepted. Use --points to list the hook points themselves.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "point",
				Usage: "Only list hooks for this hook point or host alias",
			},
			&cli.BoolFlag{
				Name:  "points",
				Usage: "List hook points and their host aliases",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := writer(cmd)
			if cmd.Bool("points") {
				printHookPoints(w)
				return nil
			}

			var point core.HookPoint
			if name := cmd.String("point"); name != "" {
				resolved, err := resolvePoint(name)
				if err != nil {
					return err
				}
				point = resolved
			}

			settings, err := config.LoadEffectiveSettings()
			if err != nil {
				return fmt.Errorf("error loading settings: %v", err)
			}
			return printHookList(w, hookKeys(), createHook, settings.IsPluginEnabled, point)
		},
	}
}

func resolvePoint(name string) (core.HookPoint, error) {
	if !core.IsValidHookPoint(name) {
		return "", fmt.Errorf("unknown hook point %q (valid: %s)", name, strings.Join(core.ValidHookPoints(), ", "))
	}
	return core.HookPoint(core.ResolveHookPointAlias(name)), nil
}

// printHookList writes the hook table. An empty point lists every hook.
func printHookList(w io.Writer, keys []string, createHook func(string) (core.Hook, error), isEnabled func(string) bool, point core.HookPoint) error {
	fmt.Fprintf(w, "%s hooks:\n", constants.AppName)
	fmt.Fprintln(w)
	shown := 0
	for _, key := range keys {
		h, err := createHook(key)
		if err != nil {
			return err
		}
		if point != "" && h.Point() != point {
			continue
		}
		state := "enabled"
		if !isEnabled(key) {
			state = "disabled"
		}
		fmt.Fprintf(w, "  %s [%s] (%s)\n", key, h.Point(), state)
		fmt.Fprintf(w, "      %s\n", h.Description())
		shown++
	}
	if shown == 0 {
		fmt.Fprintf(w, "  no hooks run at %s\n", point)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Use '%s check --site FILE --user NAME --page TITLE' to try a request.\n", constants.BinaryName)
	return nil
}

func printHookPoints(w io.Writer) {
	fmt.Fprintln(w, "Hook points:")
	fmt.Fprintln(w)
	for _, p := range core.AllHookPoints() {
		fmt.Fprintf(w, "  %s\n", p.Name)
		fmt.Fprintf(w, "      %s\n", p.Description)
		if len(p.HostAliases) > 0 {
			fmt.Fprintf(w, "      aliases: %s\n", strings.Join(p.HostAliases, ", "))
		}
	}
}
