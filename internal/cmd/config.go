package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/klauern/source-protection/internal/config"
	"github.com/urfave/cli/v3"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and validate settings",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective settings",
				Flags: []cli.Flag{
					globalFlag(),
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "yaml", Usage: "Output format: yaml, toml or json"},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					settings, err := loadScopedSettings(cmd.IsSet("global"), cmd.Bool("global"))
					if err != nil {
						return err
					}
					return showSettings(writer(cmd), settings, cmd.String("format"))
				},
			},
			{
				Name:  "validate",
				Usage: "Validate a settings file",
				Flags: []cli.Flag{globalFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					settings, err := loadScopedSettings(cmd.IsSet("global"), cmd.Bool("global"))
					if err != nil {
						return err
					}
					return reportValid(writer(cmd), settings)
				},
			},
			{
				Name:  "path",
				Usage: "Print the settings file location",
				Flags: []cli.Flag{globalFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					path, err := config.GetSettingsPath(cmd.Bool("global"))
					if err != nil {
						return err
					}
					fmt.Fprintln(writer(cmd), path)
					return nil
				},
			},
		},
	}
}

func globalFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "global",
		Aliases: []string{"g"},
		Usage:   "Use the global settings file instead of the project one",
	}
}

// loadScopedSettings loads the effective settings, or exactly one scope when --global was
// passed explicitly.
func loadScopedSettings(scoped, global bool) (*config.Settings, error) {
	if !scoped {
		return config.LoadEffectiveSettings()
	}
	path, err := config.GetSettingsPath(global)
	if err != nil {
		return nil, fmt.Errorf("error getting settings path: %v", err)
	}
	return config.LoadSettings(path)
}

func showSettings(w io.Writer, settings *config.Settings, format string) error {
	name := "settings." + format
	switch format {
	case "yaml", "yml", "toml", "json":
	default:
		return fmt.Errorf("unknown format %q (use yaml, toml or json)", format)
	}

	source := settings.Path
	if source == "" {
		source = "built-in defaults"
	}

	data, err := config.Encode(name, settings)
	if err != nil {
		return err
	}
	if format != "json" {
		fmt.Fprintf(w, "# source: %s\n", source)
	}
	_, err = w.Write(data)
	if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return err
}

func reportValid(w io.Writer, settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	source := settings.Path
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(w, "Settings OK: %s\n", source)
	return nil
}
