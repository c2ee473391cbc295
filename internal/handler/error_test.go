package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devinci/portal/internal/backend"
	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    domain.ErrorCode
		message string
	}{
		{
			name:    "conflict",
			err:     &domain.ConflictError{Participant: "bob", Events: 1},
			status:  http.StatusConflict,
			code:    domain.CodeConflict,
			message: `participant "bob" has 1 event(s) in the selected date range and cannot be assigned`,
		},
		{
			name:    "validation",
			err:     domain.NewValidationError("both participants (name1 and name2) are required"),
			status:  http.StatusBadRequest,
			code:    domain.CodeBadRequest,
			message: "both participants (name1 and name2) are required",
		},
		{
			name:    "missing id",
			err:     fmt.Errorf("cannot edit: %w", domain.ErrMissingID),
			status:  http.StatusBadRequest,
			code:    domain.CodeBadRequest,
			message: "cannot edit: missing id/PK",
		},
		{
			name:    "not confirmed",
			err:     crud.ErrNotConfirmed,
			status:  http.StatusBadRequest,
			code:    domain.CodeBadRequest,
			message: "delete not confirmed",
		},
		{name: "session", err: domain.ErrSessionNotFound, status: http.StatusUnauthorized, code: domain.CodeUnauthorized, message: "unauthorized"},
		{name: "forbidden", err: domain.ErrForbidden, status: http.StatusForbidden, code: domain.CodeForbidden, message: "forbidden"},
		{name: "unknown entity", err: fmt.Errorf("%w: nope", domain.ErrUnknownEntity), status: http.StatusNotFound, code: domain.CodeNotFound, message: "unknown entity: nope"},
		{name: "not supported", err: domain.ErrNotSupported, status: http.StatusMethodNotAllowed, code: domain.CodeBadRequest, message: "operation not supported"},
		{
			name:    "backend validation",
			err:     fmt.Errorf("create: %w", &backend.APIError{Status: 422, Message: "field required"}),
			status:  422,
			code:    domain.CodeBadRequest,
			message: "field required",
		},
		{name: "backend auth", err: &backend.APIError{Status: 401, Message: "Not authenticated"}, status: 401, code: domain.CodeUnauthorized, message: "Not authenticated"},
		{name: "backend 500", err: &backend.APIError{Status: 500, Message: "boom"}, status: http.StatusBadGateway, code: domain.CodeUpstream, message: "boom"},
		{name: "timeout", err: fmt.Errorf("backend GET /x: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout, code: domain.CodeUpstream, message: "backend did not respond in time"},
		{name: "unreachable", err: &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}, status: http.StatusBadGateway, code: domain.CodeUpstream, message: "backend unavailable"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: domain.CodeInternal, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}
