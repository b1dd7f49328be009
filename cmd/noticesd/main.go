// Command noticesd polls the public-notice search API on a schedule,
// reconciles the results into per-meeting-body archives, and regenerates the
// static site and RSS feed.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alexalemi/kissimmee.fyi/internal/archive"
	"github.com/alexalemi/kissimmee.fyi/internal/civicclerk"
	"github.com/alexalemi/kissimmee.fyi/internal/config"
	"github.com/alexalemi/kissimmee.fyi/internal/normalize"
	"github.com/alexalemi/kissimmee.fyi/internal/pipeline"
	"github.com/alexalemi/kissimmee.fyi/internal/publicnotices"
	"github.com/alexalemi/kissimmee.fyi/internal/render"
	"github.com/alexalemi/kissimmee.fyi/internal/thumbs"
	"github.com/alexalemi/kissimmee.fyi/internal/web"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		once       = flag.Bool("once", false, "run a single pass and exit")
		listen     = flag.String("listen", "", "serve the site and JSON API on this address (e.g. :8080)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("could not load config", "error", err)
		os.Exit(1)
	}

	p := buildPipeline(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := p.Run(ctx); err != nil {
			logger.Error("pass failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// One pass at a time: a slow pass must not overlap the next tick.
	var mu sync.Mutex
	runPass := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := p.Run(ctx); err != nil {
			logger.Error("pass failed", "error", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, runPass); err != nil {
		logger.Error("invalid schedule", "schedule", cfg.Schedule, "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("scheduler started", "schedule", cfg.Schedule)

	// First pass right away so a fresh deployment publishes without waiting
	// for the first tick.
	go runPass()

	addr := *listen
	if addr == "" {
		addr = cfg.Metrics.Listen
	}
	var httpServer *http.Server
	if addr != "" {
		srv := web.New(archive.NewStore(cfg.Site.DataDir, logger), cfg.Site.Dir, logger)
		httpServer = &http.Server{
			Addr:         addr,
			Handler:      srv,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Info("server started", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("server error", "error", err)
				os.Exit(1)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down...")

	cronCtx := c.Stop()
	<-cronCtx.Done()

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}

	logger.Info("stopped")
}

func buildPipeline(cfg config.Config, logger *slog.Logger) *pipeline.Pipeline {
	p := &pipeline.Pipeline{
		Search: publicnotices.New(cfg.Search.BaseURL, cfg.Search.Keywords,
			cfg.Search.Counties, cfg.Search.Timeout, logger),
		Normalizer: normalize.New(cfg.Search.BaseURL, logger),
		Archives:   archive.NewStore(cfg.Site.DataDir, logger),
		SiteDir:    cfg.Site.Dir,
		Feed: render.FeedInfo{
			Title:       cfg.Feed.Title,
			Link:        cfg.Feed.Link,
			Description: cfg.Feed.Description,
			GUIDPrefix:  cfg.Feed.GUIDPrefix,
			SiteURL:     cfg.Feed.Link,
		},
		Limit:  cfg.Search.Limit,
		Logger: logger,
	}

	if cfg.Calendar.BaseURL != "" {
		p.Calendar = civicclerk.New(cfg.Calendar.BaseURL, cfg.Calendar.Timeout)
	}

	if len(cfg.Thumbnails.Command) > 0 {
		conv := thumbs.CommandConverter{
			Command: cfg.Thumbnails.Command[0],
			Args:    cfg.Thumbnails.Command[1:],
		}
		p.Thumbs = thumbs.NewGenerator(cfg.Thumbnails.Dir, conv, cfg.Thumbnails.Timeout, logger)
	}

	return p
}
