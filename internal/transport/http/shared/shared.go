// Package shared centralizes JSON envelope writing so every handler maps
// domain errors to HTTP responses the same way.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "vaxcard/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope returned to clients. Reason is
// present on validation rejections so the client can show the distinguishing
// cause instead of a generic failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// WriteError translates a domain error into the HTTP error envelope.
// Non-domain errors become a generic internal error so storage details never
// leak to the caller.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		de = dErrors.New(dErrors.CodeInternal, "internal server error")
	}
	status := dErrors.ToHTTPStatus(de.Code)
	message := de.Message
	if de.Code == dErrors.CodeInternal {
		message = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   string(de.Code),
		Reason:  de.Reason,
		Message: message,
	})
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
