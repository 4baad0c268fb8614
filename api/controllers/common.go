package controllers

import (
	"net/http"

	"github.com/evolutionflow/admin-bff/api/middleware"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/go-chi/chi/v5"
)

type statusBody struct {
	Status string `json:"status" validate:"required"`
}

type visibilityBody struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// upstreamToken is the backend token Auth resolved for the signed-in admin.
func upstreamToken(r *http.Request) string {
	return middleware.UpstreamTokenFromContext(r.Context())
}

func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if v == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required").
			WithDetails(map[string]any{"field": name})
	}
	return v, nil
}

func invalidValue(field string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field).
		WithDetails(map[string]any{"field": field})
}
