package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/generator"
	"github.com/urfave/cli/v3"
)

// NewInitCmd creates the init command
func NewInitCmd(hookKeys func() []string) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write starter settings and a sample site fixture",
		Description: `Create settings.yml and site.yml in the project settings directory, or in the
global XDG directory with --global. Existing files are left alone unless --force is given.`,
		Flags: []cli.Flag{
			globalFlag(),
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Site name for the sample fixture"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite existing files"},
			&cli.BoolFlag{Name: "no-site", Usage: "Only write settings"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir := constants.ConfigDir
			if cmd.Bool("global") {
				xdg := config.NewXDGConfig()
				if err := xdg.EnsureDirectories(); err != nil {
					return err
				}
				dir = xdg.GetConfigDir()
			}
			return runInit(writer(cmd), generator.NewGenerator(dir, cmd.Bool("force")),
				generator.DefaultTemplateData(cmd.String("name"), hookKeys()), !cmd.Bool("no-site"))
		},
	}
}

func runInit(w io.Writer, g *generator.Generator, data generator.TemplateData, withSite bool) error {
	if withSite {
		data.SitePath = g.SitePath()
	}
	path, err := g.GenerateSettings(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Generated: %s\n", path)

	if !withSite {
		return nil
	}
	path, err = g.GenerateSite(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Generated: %s\n", path)
	fmt.Fprintf(w, "\nTry: %s check --page \"Main Page\" --action raw\n", constants.BinaryName)
	return nil
}
