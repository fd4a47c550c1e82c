package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/wiki"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve command
func NewServeCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a site fixture over HTTP with the hooks enabled",
		Description: `Start the reference wiki host. Pages are served at /wiki/<title>, the acting user
is taken from the X-Wiki-User header, and Prometheus metrics are exposed at /metrics.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from settings, then " + config.DefaultAddr + ")"},
			&cli.StringFlag{Name: "site", Aliases: []string{"s"}, Usage: "Site fixture (YAML)"},
			&cli.BoolFlag{Name: "log", Aliases: []string{"l"}, Usage: "Enable hook decision logging"},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log output format: jsonl or pretty",
				Validator: func(f string) error {
					if !config.IsValidLoggingFormat(f) {
						return fmt.Errorf("invalid log format %q (use jsonl or pretty)", f)
					}
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := config.LoadEffectiveSettings()
			if err != nil {
				return fmt.Errorf("error loading settings: %v", err)
			}
			applyServeFlags(settings, cmd)
			if err := settings.Validate(); err != nil {
				return err
			}

			store, err := loadSite(cmd.String("site"), settings)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			rt, err := NewRuntime(settings, store, reg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			server := wiki.NewServer(store, rt.Dispatcher, rt.Logger, reg)
			return runServer(ctx, writer(cmd), server, settings.Server.Addr)
		},
	}
}

func applyServeFlags(settings *config.Settings, cmd *cli.Command) {
	if cmd.IsSet("addr") {
		settings.Server.Addr = cmd.String("addr")
	}
	if settings.Server.Addr == "" {
		settings.Server.Addr = config.DefaultAddr
	}
	if cmd.IsSet("log") {
		settings.Logging.Enabled = cmd.Bool("log")
	}
	if cmd.IsSet("log-format") {
		settings.Logging.Format = cmd.String("log-format")
	}
}

type server interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

func runServer(ctx context.Context, w io.Writer, s server, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(addr) }()
	fmt.Fprintf(w, "Serving on http://%s (Ctrl-C to stop)\n", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
