package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/klauern/source-protection/internal/cmd"
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/core"
	"github.com/urfave/cli/v3"
)

// Set by goreleaser or -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  constants.BinaryName,
		Usage: "Hide page source from wiki users without edit rights",
		Description: `Runs the built-in source-protection hooks against a wiki site. Use 'check' to
try a single request, or 'serve' to run the reference wiki host with the hooks enabled.`,
		Commands: []*cli.Command{
			cmd.NewListCmd(core.GetHookKeys, core.CreateHook),
			cmd.NewInitCmd(core.GetHookKeys),
			cmd.NewCheckCmd(),
			cmd.NewServeCmd(),
			cmd.NewConfigCmd(),
			cmd.NewVersionCmd(cmd.VersionInfo{
				Version: version,
				Commit:  commit,
				Date:    date,
				GoVer:   runtime.Version(),
			}),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
