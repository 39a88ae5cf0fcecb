/*
Package handler provides the operational HTTP endpoints of the bot.

The bot itself talks over Telegram; this router only exposes /health for
liveness probes and /metrics for prometheus scrapes.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/resp"
)

// Router sets up the operational routing table (chi.Router).
func Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Telegram Garbage Bot",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
