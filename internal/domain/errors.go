package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки портала
var (
	// ErrMissingID возвращается при попытке редактировать или удалить строку без id/PK
	ErrMissingID = errors.New("missing id/PK")

	// ErrUnauthorized возвращается при отсутствии или неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен портала невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrSessionNotFound возвращается когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session not found")

	// ErrForbidden возвращается когда у пользователя нет нужной роли
	ErrForbidden = errors.New("forbidden")

	// ErrUnknownEntity возвращается для сущности, отсутствующей в реестре админки
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrInvalidRowID возвращается когда составной id строки не разбирается
	ErrInvalidRowID = errors.New("invalid row id")

	// ErrValidation возвращается при невалидном черновике или запросе
	ErrValidation = errors.New("validation failed")

	// ErrNotFound возвращается когда строка не найдена среди загруженных
	ErrNotFound = errors.New("not found")

	// ErrNotSupported возвращается когда операция не поддерживается таблицей
	ErrNotSupported = errors.New("operation not supported")
)

// ErrorCode представляет коды ошибок API портала
type ErrorCode string

// Коды ошибок портала
const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "SCHEDULE_CONFLICT"
	CodeUpstream     ErrorCode = "UPSTREAM_ERROR"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// ConflictError сообщает, что у участника есть события в выбранном диапазоне дат
type ConflictError struct {
	Participant string
	Events      int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("participant %q has %d event(s) in the selected date range and cannot be assigned", e.Participant, e.Events)
}

// UserMessage возвращает текст ошибки для показа пользователю
func (e *ConflictError) UserMessage() string {
	return e.Error()
}

// ValidationError описывает ошибку валидации черновика, понятную пользователю
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserMessage возвращает текст ошибки для показа пользователю
func (e *ValidationError) UserMessage() string {
	return e.Message
}

// Unwrap позволяет сравнивать ошибку с ErrValidation через errors.Is
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError создает ValidationError с форматированным сообщением
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrorMessage извлекает из ошибки сообщение, пригодное для показа пользователю
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
