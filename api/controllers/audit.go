package controllers

import (
	"net/http"

	"github.com/evolutionflow/admin-bff/api/responses"
	"github.com/evolutionflow/admin-bff/api/validators"
	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

func AuditList(svc audit.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	filterKeys := audit.EntrySpec(pageSize).FilterKeys()
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := validators.ParseListQuery(r, filterKeys)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
