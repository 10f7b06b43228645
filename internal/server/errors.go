package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// APIError is the JSON body of every error response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, msg string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg, Details: details}
}

// toAPIError maps engine and loader errors to HTTP responses: bad requests
// are 400, unreadable uploads 422, anything else 500.
func toAPIError(err error) *APIError {
	var ae *APIError
	var ife *dataset.InputFormatError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.As(err, &mbe):
		return newAPIError(http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "upload exceeds the size limit", mbe.Limit)
	case errors.As(err, &ife):
		return newAPIError(http.StatusUnprocessableEntity, "INPUT_FORMAT", "uploaded file could not be read", err.Error())
	case errors.Is(err, analysis.ErrInvalidRequest):
		return newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "invalid analysis request", err.Error())
	}
	return newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	_ = render.Render(w, r, toAPIError(err))
}
