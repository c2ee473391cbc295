package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/render"

	"github.com/devinci/portal/internal/backend"
	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code domain.ErrorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки и ошибки backend в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflict *domain.ConflictError
		apiErr   *backend.APIError
		urlErr   *url.Error
	)

	switch {
	case errors.As(err, &conflict):
		RespondWithError(w, r, http.StatusConflict, domain.CodeConflict, conflict.UserMessage())
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMissingID),
		errors.Is(err, domain.ErrInvalidRowID),
		errors.Is(err, crud.ErrNotConfirmed):
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, domain.ErrorMessage(err))
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSessionNotFound):
		RespondWithError(w, r, http.StatusUnauthorized, domain.CodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		RespondWithError(w, r, http.StatusForbidden, domain.CodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnknownEntity), errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, r, http.StatusNotFound, domain.CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrNotSupported):
		RespondWithError(w, r, http.StatusMethodNotAllowed, domain.CodeBadRequest, "operation not supported")
	case errors.As(err, &apiErr):
		handleBackendError(w, r, apiErr)
	case errors.Is(err, context.DeadlineExceeded):
		RespondWithError(w, r, http.StatusGatewayTimeout, domain.CodeUpstream, "backend did not respond in time")
	case errors.As(err, &urlErr):
		RespondWithError(w, r, http.StatusBadGateway, domain.CodeUpstream, "backend unavailable")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, domain.CodeInternal, "internal server error")
	}
}

// handleBackendError пробрасывает клиентские ошибки backend с его сообщением,
// серверные превращаются в 502
func handleBackendError(w http.ResponseWriter, r *http.Request, apiErr *backend.APIError) {
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		RespondWithError(w, r, apiErr.Status, domain.CodeUnauthorized, apiErr.Message)
	case apiErr.Status == http.StatusForbidden:
		RespondWithError(w, r, apiErr.Status, domain.CodeForbidden, apiErr.Message)
	case apiErr.Status == http.StatusNotFound:
		RespondWithError(w, r, apiErr.Status, domain.CodeNotFound, apiErr.Message)
	case apiErr.Status >= 400 && apiErr.Status < 500:
		RespondWithError(w, r, apiErr.Status, domain.CodeBadRequest, apiErr.Message)
	default:
		RespondWithError(w, r, http.StatusBadGateway, domain.CodeUpstream, apiErr.Message)
	}
}
