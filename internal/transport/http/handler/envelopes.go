package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liquidsuites/launch-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubscribeEnvelope wraps subscribe responses. The form treats success=false
// with a message as a user-facing validation result.
type SubscribeEnvelope struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Warning string `json:"warning,omitempty"`
	Message string `json:"message,omitempty"`
}

// SendSMSEnvelope wraps a successful direct send.
type SendSMSEnvelope struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"messageSid"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Warning    string `json:"warning,omitempty"`
}

// SendSMSErrorEnvelope wraps a failed direct send, carrying the classified
// provider details.
type SendSMSErrorEnvelope struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Code       int    `json:"code,omitempty"`
	MessageSID string `json:"messageSid,omitempty"`
}

// BroadcastEnvelope wraps notify-all responses.
type BroadcastEnvelope struct {
	Success bool                    `json:"success"`
	Total   int                     `json:"total"`
	Sent    int                     `json:"sent"`
	Failed  int                     `json:"failed"`
	Results []domain.BroadcastEntry `json:"results"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
