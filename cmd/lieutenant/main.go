package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/pthm/lieutenant"
	"github.com/pthm/lieutenant/lib/config"
	"github.com/pthm/lieutenant/variants"
)

const version = "0.1.0"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "lieutenant",
		Usage:   "serve self-loading components",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration",
				Value:   "lieutenant.yaml",
				Sources: cli.EnvVars("LIEUTENANT_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: runServe,
			},
			{
				Name:  "check",
				Usage: "validate the configuration and mount every configured component once",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "how long each component may take to settle",
						Value: 30 * time.Second,
					},
				},
				Action: runCheck,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintf(cmd.Root().Writer, "lieutenant version %s\n", version)
					return err
				},
			},
		},
	}
}

// setup loads and validates the configuration and builds the registry it
// describes.
func setup(cmd *cli.Command) (*config.Config, *lieutenant.Registry, *zap.Logger, error) {
	cfg, err := config.Load(cmd.Root().String("config"))
	if err != nil {
		return nil, nil, nil, err
	}

	var known []string
	for _, v := range variants.All() {
		known = append(known, v.Name())
	}
	if err := cfg.Validate(known); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config %s:\n%w", cfg.LoadedFrom, err)
	}

	log, err := cfg.Logger()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := cfg.FetchClient()
	if err != nil {
		return nil, nil, nil, err
	}

	reg := lieutenant.NewRegistry([]byte(cfg.Server.Key), cfg.Options(log, client)...)
	reg.Define(variants.All()...)
	return cfg, reg, log, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, reg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           routes(cfg, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("path", reg.Path()),
			zap.Strings("elements", reg.Names()),
			zap.Int("components", len(cfg.Components)),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func routes(cfg *config.Config, reg *lieutenant.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(reg.Path(), reg.Handler())
	if cfg.Server.Assets != "" {
		mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.Server.Assets))))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_ = lieutenant.Render(w, r, indexPage(cfg, reg))
	})
	return mux
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	cfg, reg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out := cmd.Root().Writer
	fmt.Fprintf(out, "config %s ok: %d component(s)\n", cfg.LoadedFrom, len(cfg.Components))

	failed := 0
	for i, comp := range cfg.Components {
		state, size, err := mountOnce(ctx, reg, comp, cmd.Duration("timeout"))
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(out, "  [%d] %s: %v\n", i, comp.Element, err)
		case state != lieutenant.Ready:
			failed++
			fmt.Fprintf(out, "  [%d] %s: %s\n", i, comp.Element, state)
		default:
			fmt.Fprintf(out, "  [%d] %s: %s (%s)\n", i, comp.Element, state, humanize.Bytes(uint64(size)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d component(s) failed", failed, len(cfg.Components))
	}
	return nil
}

// mountOnce mounts one configured component and reports how it settled.
// A component that ends in Error reports the underlying reason.
func mountOnce(ctx context.Context, reg *lieutenant.Registry, comp config.ComponentConfig, timeout time.Duration) (lieutenant.State, int, error) {
	inst, err := reg.New(comp.Element)
	if err != nil {
		return lieutenant.Idle, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := inst.Mount(ctx, comp.Attributes()); err != nil {
		return lieutenant.Idle, 0, err
	}
	defer inst.Unmount()

	state, err := inst.Wait(ctx)
	if err != nil {
		return state, 0, err
	}
	if state == lieutenant.Error {
		return state, 0, inst.Err()
	}
	return state, len(inst.HTML()), nil
}
