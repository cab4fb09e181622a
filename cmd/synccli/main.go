// Command synccli runs a single sync pass against a CalDAV account,
// printing progress events as it goes. It's meant as a usage example of
// the library, not a daemon.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-caldav/sync/config"
	"github.com/go-caldav/sync/localstore"
	"github.com/go-caldav/sync/progress"
	"github.com/go-caldav/sync/remotesource"
	"github.com/go-caldav/sync/syncengine"
	"github.com/go-caldav/sync/wire"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var (
	baseURL   = flag.String("base-url", os.Getenv("GOCALDAV_URL"), "CalDAV account root URL")
	username  = flag.String("username", os.Getenv("GOCALDAV_USER"), "basic auth username")
	password  = flag.String("password", os.Getenv("GOCALDAV_PASS"), "basic auth password")
	cacheDir  = flag.String("cache-dir", envDefault("GOCALDAV_CACHE_DIR", "./synccli-cache"), "local cache directory")
	batchSize = flag.Int("batch-size", config.DefaultBatchSize, "items fetched per REPORT calendar-multiget")
	timeout   = flag.Duration("timeout", 60*time.Second, "overall sync pass timeout")
)

func main() {
	flag.Parse()

	if *baseURL == "" || *username == "" {
		log.Fatal("base-url and username are required (see -h)")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Config{
		BaseURL:   *baseURL,
		Username:  *username,
		Password:  *password,
		CacheDir:  *cacheDir,
		BatchSize: *batchSize,
		Logger:    logger,
	}.WithDefaults()

	store := localstore.New(cfg.CacheDir)
	if err := store.Load(); err != nil {
		logger.Warn("starting with an empty cache", "reason", err)
	}

	root, err := url.Parse(cfg.BaseURL)
	if err != nil {
		log.Fatalf("invalid base-url: %v", err)
	}
	client := wire.NewClient(&http.Client{}, root, cfg.Username, cfg.Password, logger)
	remote := remotesource.NewSource(client, cfg.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	reporter := progress.NewSlogReporter(logger)
	engine := syncengine.New(store.Calendars(), remote,
		syncengine.WithReporter(reporter),
		syncengine.WithLogger(logger),
		syncengine.WithBatchSize(cfg.BatchSize),
	)

	success := engine.Run(ctx)

	if err := store.Persist(); err != nil {
		logger.Error("failed to persist cache", "error", err)
		os.Exit(1)
	}

	if !success {
		os.Exit(1)
	}
}
