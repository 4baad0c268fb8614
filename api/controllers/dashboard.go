package controllers

import (
	"net/http"
	"time"

	"github.com/evolutionflow/admin-bff/api/responses"
	"github.com/evolutionflow/admin-bff/internal/dashboard"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

// Dashboard serves the overview, reusing a snapshot younger than maxAge.
func Dashboard(svc dashboard.Service, maxAge time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			out *dashboard.Dashboard
			err error
		)
		if r.URL.Query().Get("fresh") == "true" {
			out, err = svc.Build(r.Context(), upstreamToken(r))
		} else {
			out, err = svc.Cached(r.Context(), upstreamToken(r), maxAge)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
