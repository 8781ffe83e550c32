package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rubiojr/pagebuilder/pkg/api"
	"github.com/rubiojr/pagebuilder/pkg/config"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/log"
	"github.com/rubiojr/pagebuilder/pkg/pages"
	"github.com/rubiojr/pagebuilder/pkg/realtime"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve tenant pages, the preview API and metrics over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:  "static",
				Usage: "Do not open the database; data-driven blocks are skipped",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload pages when files change",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			addr := cfg.Listen
			if l := c.String("listen"); l != "" {
				addr = l
			}
			return serve(ctx, cfg, serveOptions{
				addr:    addr,
				static:  c.Bool("static"),
				noWatch: c.Bool("no-watch"),
			})
		},
	}
}

type serveOptions struct {
	addr    string
	static  bool
	noWatch bool
}

func serve(ctx context.Context, cfg *config.Config, opts serveOptions) error {
	logger := log.ForService("serve")

	pageStore := pages.NewStore(cfg.PagesDir)
	if err := pageStore.Load(); err != nil {
		return fmt.Errorf("loading pages: %w", err)
	}

	var gw gateway.Gateway
	var pinger api.Pinger
	if !opts.static {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore(store)
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		gw, pinger = store, store
	}

	composer, err := newComposer(cfg, gw, newMetrics())
	if err != nil {
		return err
	}

	apiServer := api.NewServer(composer, pageStore, tenantsFromConfig(cfg), pinger)
	var hub *realtime.Hub
	if !opts.noWatch {
		hub = realtime.NewHub(0)
		apiServer.SetHub(hub)
	}
	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Websocket upgrades need the unwrapped ResponseWriter.
	root := http.NewServeMux()
	root.Handle("/", gzhttp.GzipHandler(api.CorsMiddleware(mux)))
	root.Handle("GET /api/t/{tenant}/live", api.CorsMiddleware(mux))

	server := &http.Server{
		Addr:              opts.addr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if hub != nil {
		go func() {
			if err := pageStore.Watch(ctx, realtime.ReloadNotifier(hub, pageStore)); err != nil {
				logger.Warnf("page reloading disabled: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on http://%s", opts.addr)
		logger.Infof("  GET  /t/{tenant}/{slug}         rendered page")
		logger.Infof("  GET  /t/{tenant}                page index")
		logger.Infof("  POST /api/t/{tenant}/preview    single block preview")
		logger.Infof("  POST /api/t/{tenant}/render     render an unsaved block list")
		logger.Infof("  GET  /api/blocks                registered block types")
		if hub != nil {
			logger.Infof("  GET  /api/t/{tenant}/live       page reload stream (websocket)")
		}
		logger.Infof("  GET  /health, /metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
