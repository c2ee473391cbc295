package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// UserMessage returns the human-readable message extracted from the body.
func (e *APIError) UserMessage() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := ExtractMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// ExtractMessage pulls a message out of an error body: a validation list
// under "detail" (messages joined), a "detail" string, or a "message" string.
// It returns "" when none of these is present.
func ExtractMessage(body []byte) string {
	var data struct {
		Detail  json.RawMessage `json:"detail"`
		Message *string         `json:"message"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}

	if len(data.Detail) > 0 && string(data.Detail) != "null" {
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(data.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) == 0 {
				return "Validation error (422)"
			}
			return strings.Join(msgs, ", ")
		}

		var detail string
		if err := json.Unmarshal(data.Detail, &detail); err == nil {
			return detail
		}
	}

	if data.Message != nil {
		return *data.Message
	}
	return ""
}
