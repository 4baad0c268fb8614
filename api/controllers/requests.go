package controllers

import (
	"context"
	"net/http"

	"github.com/evolutionflow/admin-bff/api/responses"
	"github.com/evolutionflow/admin-bff/api/validators"
	"github.com/evolutionflow/admin-bff/internal/requests"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

func requestKind(r *http.Request) (enums.RequestKind, error) {
	raw, err := pathParam(r, "kind")
	if err != nil {
		return "", err
	}
	kind, err := enums.ParseRequestKind(raw)
	if err != nil {
		return "", invalidValue("kind", err)
	}
	return kind, nil
}

// RequestList serves one kind's inbox, filtered by the status query parameter.
func RequestList(svc requests.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	filterKeys := requests.RequestSpec(pageSize).FilterKeys()
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := requestKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		q, err := validators.ParseListQuery(r, filterKeys)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if status, ok := q.Filters["status"]; ok {
			parsed, err := enums.ParseRequestStatus(status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, invalidValue("status", err))
				return
			}
			q.Filters["status"] = string(parsed)
		}
		result, err := svc.Page(r.Context(), upstreamToken(r), kind, q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RequestApprove and RequestReject settle a PENDING request.
func RequestApprove(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return requestDecision(logg, svc.Approve)
}

func RequestReject(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return requestDecision(logg, svc.Reject)
}

type decideFunc func(ctx context.Context, token string, kind enums.RequestKind, id string) (*requests.Decision, error)

func requestDecision(logg *logger.Logger, decide decideFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := requestKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision, err := decide(r.Context(), upstreamToken(r), kind, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decision)
	}
}
