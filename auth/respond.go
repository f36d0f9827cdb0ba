package auth

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/logging"
)

// serverErrorMessage is the only text clients ever see for a 5xx response.
const serverErrorMessage = "Server error"

// WriteJSON serializes data to JSON and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil { // Avoid writing nil, which would produce a "null" body
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; nothing more can be told to the client.
			logging.FromContext(context.Background()).WithError(err).Error("failed to encode response")
		}
	}
}

// WriteError converts any error into the standard `{success:false, error}` response.
// Errors that are not *apperror.AppError, and every 5xx error, are logged with their full
// chain and reported to the client as a bare "Server error".
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	entry := logging.FromContext(r.Context())

	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError(serverErrorMessage, err)
	}

	if appErr.IsServerError() {
		entry.WithError(err).WithField("error_type", appErr.Type.String()).Error("request failed")
		WriteJSON(w, appErr.StatusCode(), apperror.ErrorResponse{Success: false, Error: serverErrorMessage})
		return
	}

	entry.WithError(err).WithField("error_type", appErr.Type.String()).Debug("request rejected")
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

// DecodeJSON reads the request body into dst. Malformed or empty bodies become a
// ValidationError so they are answered with 400 instead of 500.
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewValidationError("Request body is required", err)
		}
		return apperror.NewValidationError("Invalid request body", err)
	}
	return nil
}
