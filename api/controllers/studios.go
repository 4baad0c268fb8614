package controllers

import (
	"net/http"

	"github.com/evolutionflow/admin-bff/api/responses"
	"github.com/evolutionflow/admin-bff/api/validators"
	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/internal/studios"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

type studioCreateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Location    string `json:"location" validate:"required,max=200"`
	ManagerName string `json:"managerName" validate:"max=100"`
	Contact     string `json:"contact" validate:"max=100"`
	Capacity    int    `json:"capacity" validate:"min=0"`
	Status      string `json:"status,omitempty"`
}

type studioUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=200"`
	ManagerName *string `json:"managerName,omitempty" validate:"omitempty,max=100"`
	Contact     *string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,min=0"`
}

// studioRow is a studio with the status targets the admin may pick next.
type studioRow struct {
	studios.Studio
	AllowedTransitions []enums.StudioStatus `json:"allowedTransitions"`
}

func newStudioRow(s studios.Studio) studioRow {
	return studioRow{Studio: s, AllowedTransitions: lifecycle.Studio.Allowed(s.Status)}
}

func StudioList(svc studios.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	filterKeys := studios.StudioSpec(pageSize).FilterKeys()
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
		rows := make([]studioRow, 0, len(result.Items))
		for _, s := range result.Items {
			rows = append(rows, newStudioRow(s))
		}
		responses.WriteSuccess(w, listview.Result[studioRow]{
			Items:      rows,
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
			Query:      result.Query,
		})
	}
}

func StudioDetail(svc studios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		studio, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStudioRow(*studio))
	}
}

func StudioCreate(svc studios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body studioCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := studios.CreateInput{
			Name:        body.Name,
			Location:    body.Location,
			ManagerName: body.ManagerName,
			Contact:     body.Contact,
			Capacity:    body.Capacity,
		}
		if body.Status != "" {
			status, err := enums.ParseStudioStatus(body.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, invalidValue("status", err))
				return
			}
			input.Status = status
		}
		studio, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newStudioRow(*studio))
	}
}

func StudioUpdate(svc studios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body studioUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		studio, err := svc.Update(r.Context(), id, studios.UpdateInput{
			Name:        body.Name,
			Location:    body.Location,
			ManagerName: body.ManagerName,
			Contact:     body.Contact,
			Capacity:    body.Capacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStudioRow(*studio))
	}
}

func StudioStatus(svc studios.Service, logg *logger.Logger) http.HandlerFunc {
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
		to, err := enums.ParseStudioStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, invalidValue("status", err))
			return
		}
		studio, err := svc.ChangeStatus(r.Context(), id, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStudioRow(*studio))
	}
}
