package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/gyiad-org/membership-api/internal/app/directory"
	"github.com/gyiad-org/membership-api/internal/app/members"
	"github.com/gyiad-org/membership-api/internal/app/passwordreset"
	"github.com/gyiad-org/membership-api/internal/app/requests"
	"github.com/gyiad-org/membership-api/internal/app/settings"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error struct {
		Code      string                            `json:"code"`
		Message   string                            `json:"message"`
		Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
		RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeAppError maps an application-layer error onto the envelope; anything
// unrecognized becomes a 500.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		dirErr   *directory.Error
		memErr   *members.Error
		reqErr   *requests.Error
		setErr   *settings.Error
		resetErr *passwordreset.Error
	)
	switch {
	case errors.As(err, &dirErr):
		writeError(w, r, dirErr.Status, dirErr.Code, dirErr.Message, dirErr.Details)
	case errors.As(err, &memErr):
		writeError(w, r, memErr.Status, memErr.Code, memErr.Message, memErr.Details)
	case errors.As(err, &reqErr):
		writeError(w, r, reqErr.Status, reqErr.Code, reqErr.Message, reqErr.Details)
	case errors.As(err, &setErr):
		writeError(w, r, setErr.Status, setErr.Code, setErr.Message, setErr.Details)
	case errors.As(err, &resetErr):
		writeError(w, r, resetErr.Status, resetErr.Code, resetErr.Message, resetErr.Details)
	default:
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
