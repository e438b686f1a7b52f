package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourorg/property-intel/acumidata"
	"github.com/yourorg/property-intel/internal/auth"
	"github.com/yourorg/property-intel/internal/batch"
	"github.com/yourorg/property-intel/internal/cache"
	"github.com/yourorg/property-intel/internal/configs"
	"github.com/yourorg/property-intel/internal/events"
	"github.com/yourorg/property-intel/internal/logger"
	"github.com/yourorg/property-intel/internal/recorder"
	"github.com/yourorg/property-intel/internal/store"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	slg := logger.New(cfg.LogLevel)

	if err := acumidata.ValidateCatalog(); err != nil {
		log.Fatalf("endpoint catalog: %v", err)
	}

	client := acumidata.NewClient(cfg.Credentials, acumidata.WithTimeout(cfg.HTTPTimeout))

	var reportCache *cache.ReportCache
	if cfg.RedisAddr != "" {
		reportCache = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, cfg.StaleAfter)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := reportCache.Ping(ctx); err != nil {
			slg.Warn("redis unreachable, running without report cache", "err", err)
			reportCache = nil
		}
		cancel()
	}

	var st *store.Store
	var pub events.Publisher
	if cfg.PostgresDSN != "" {
		st, err = store.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("store open: %v", err)
		}
		defer st.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.Ping(ctx); err != nil {
			cancel()
			log.Fatalf("postgres ping: %v", err)
		}
		if err := st.Migrate(ctx); err != nil {
			cancel()
			log.Fatalf("postgres migrate: %v", err)
		}
		cancel()

		pub = events.NewInMemory(256)
		rec := &recorder.Recorder{Pub: pub, Store: st, Log: slg}
		go rec.Run(context.Background())
	}

	users, err := auth.OpenUserStore(cfg.UsersFile)
	if err != nil {
		log.Fatalf("user store: %v", err)
	}
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)

	processor := &batch.Processor{
		Client:  client,
		Pub:     pub,
		Log:     slg,
		Workers: cfg.BatchWorkers,
		Limiter: rate.NewLimiter(rate.Limit(cfg.BatchRateLimit), 1),
		MaxRows: cfg.BatchMaxRows,
	}

	router := buildRouter(routerDeps{
		cfg:       cfg,
		log:       slg,
		client:    client,
		cache:     reportCache,
		store:     st,
		pub:       pub,
		processor: processor,
		users:     users,
		sessions:  sessions,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slg.Info("property-intel listening", "addr", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}
