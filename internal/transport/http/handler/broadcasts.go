package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liquidsuites/launch-api/internal/application/broadcast"
	"github.com/liquidsuites/launch-api/internal/domain"
	"github.com/liquidsuites/launch-api/internal/pkg/validate"
)

// BroadcastHandler exposes the admin notify-all and history endpoints.
type BroadcastHandler struct {
	svc broadcast.Service
}

func NewBroadcastHandler(svc broadcast.Service) *BroadcastHandler {
	return &BroadcastHandler{svc: svc}
}

func (h *BroadcastHandler) NotifyAll(w http.ResponseWriter, r *http.Request) {
	var req domain.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	summary, err := h.svc.NotifyAll(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "Message is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to send notifications")
		return
	}

	writeJSON(w, http.StatusOK, BroadcastEnvelope{
		Success: true,
		Total:   summary.Total,
		Sent:    summary.Sent,
		Failed:  summary.Failed,
		Results: summary.Results,
	})
}

func (h *BroadcastHandler) History(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.History(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	if list == nil {
		list = []domain.Broadcast{}
	}
	writeJSON(w, http.StatusOK, list)
}
