package controllers

import (
	"net/http"

	"github.com/evolutionflow/admin-bff/api/responses"
	"github.com/evolutionflow/admin-bff/api/validators"
	"github.com/evolutionflow/admin-bff/internal/contacts"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

// ContactList serves the inquiries or partnerships page.
func ContactList(svc contacts.Service, view contacts.View, pageSize int, logg *logger.Logger) http.HandlerFunc {
	filterKeys := contacts.ContactSpec(pageSize).FilterKeys()
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := validators.ParseListQuery(r, filterKeys)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), upstreamToken(r), view, q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ContactStatus(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body statusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := enums.ParseContactStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, invalidValue("status", err))
			return
		}
		out, err := svc.ChangeStatus(r.Context(), upstreamToken(r), id, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
