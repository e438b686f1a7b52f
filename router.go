package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/yourorg/property-intel/acumidata"
	httpapi "github.com/yourorg/property-intel/http"
	"github.com/yourorg/property-intel/internal/auth"
	"github.com/yourorg/property-intel/internal/batch"
	"github.com/yourorg/property-intel/internal/cache"
	"github.com/yourorg/property-intel/internal/configs"
	"github.com/yourorg/property-intel/internal/events"
	"github.com/yourorg/property-intel/internal/logger"
	"github.com/yourorg/property-intel/internal/store"
)

type routerDeps struct {
	cfg       *configs.AppConfig
	log       *slog.Logger
	client    *acumidata.Client
	cache     *cache.ReportCache
	store     *store.Store
	pub       events.Publisher
	processor *batch.Processor
	users     *auth.UserStore
	sessions  *auth.Sessions
}

func buildRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Middleware(d.log))
	r.Use(httprate.LimitByIP(d.cfg.RequestRateLimit, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterAuth(r, httpapi.AuthDeps{Users: d.users, Sessions: d.sessions})

	r.Route("/api", func(r chi.Router) {
		r.Use(d.sessions.Middleware)
		httpapi.RegisterEndpoints(r)
		httpapi.RegisterReport(r, httpapi.ReportDeps{
			Client:     d.client,
			Cache:      d.cache,
			Pub:        d.pub,
			DefaultEnv: d.cfg.Environment,
			Log:        d.log,
		})
		httpapi.RegisterBatch(r, httpapi.BatchDeps{
			Processor:  d.processor,
			Store:      d.store,
			DefaultEnv: d.cfg.Environment,
		})
		httpapi.RegisterHistory(r, httpapi.HistoryDeps{Store: d.store})
	})

	return r
}
