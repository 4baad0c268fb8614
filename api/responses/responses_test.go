package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evolutionflow/admin-bff/pkg/backend"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/evolutionflow/admin-bff/pkg/types"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return body
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), logger.Nop(), w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}
	body := decodeError(t, w)
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "bad input" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorStateConflictIs422(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move from closed to open"))

	if got := w.Code; got != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 but got %d", got)
	}
	if body := decodeError(t, w); body.Error.Message != "cannot move from closed to open" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestWriteErrorMapsUpstreamStatus(t *testing.T) {
	cases := []struct {
		status int
		want   int
		code   pkgerrors.Code
	}{
		{status: http.StatusUnauthorized, want: http.StatusUnauthorized, code: pkgerrors.CodeUnauthorized},
		{status: http.StatusForbidden, want: http.StatusForbidden, code: pkgerrors.CodeForbidden},
		{status: http.StatusNotFound, want: http.StatusNotFound, code: pkgerrors.CodeNotFound},
		{status: http.StatusConflict, want: http.StatusConflict, code: pkgerrors.CodeConflict},
		{status: http.StatusUnprocessableEntity, want: http.StatusBadRequest, code: pkgerrors.CodeValidation},
		{status: http.StatusInternalServerError, want: http.StatusBadGateway, code: pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			err := fmt.Errorf("approve: %w", &backend.APIError{Status: tc.status, Message: "upstream says no"})
			WriteError(context.Background(), nil, w, err)

			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
			body := decodeError(t, w)
			if body.Error.Code != string(tc.code) {
				t.Fatalf("expected %s, got %s", tc.code, body.Error.Code)
			}
			if body.Error.Message != "upstream says no" {
				t.Fatalf("expected upstream message, got %q", body.Error.Message)
			}
		})
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
	body := decodeError(t, w)
	if body.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Details != nil {
		t.Fatalf("details should be omitted for internal errors")
	}
}
