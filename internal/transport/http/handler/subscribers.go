package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liquidsuites/launch-api/internal/application/export"
	"github.com/liquidsuites/launch-api/internal/application/subscription"
	"github.com/liquidsuites/launch-api/internal/domain"
	"github.com/liquidsuites/launch-api/internal/pkg/validate"
)

// SubscriberHandler exposes the public subscribe endpoint and the admin
// roster endpoints.
type SubscriberHandler struct {
	svc      subscription.Service
	exporter export.Service
}

func NewSubscriberHandler(svc subscription.Service, exporter export.Service) *SubscriberHandler {
	return &SubscriberHandler{svc: svc, exporter: exporter}
}

func (h *SubscriberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubscribeEnvelope{
			Success: false, Message: "invalid request body",
		})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubscribeEnvelope{
			Success: false, Message: "Phone number is required",
		})
		return
	}

	out, err := h.svc.Subscribe(r.Context(), req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			writeJSON(w, http.StatusBadRequest, SubscribeEnvelope{
				Success: false, Message: "Phone number already registered",
			})
		case errors.Is(err, domain.ErrBadRequest):
			writeJSON(w, http.StatusBadRequest, SubscribeEnvelope{
				Success: false, Message: "Please enter a valid 10-digit phone number",
			})
		default:
			writeJSON(w, http.StatusInternalServerError, SubscribeEnvelope{
				Success: false, Message: "Something went wrong. Please try again.",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, SubscribeEnvelope{
		Success: true,
		ID:      out.ID,
		Warning: out.Warning,
	})
}

func (h *SubscriberHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	if subs == nil {
		subs = []domain.Subscriber{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *SubscriberHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export storage not configured")
		return
	}
	res, err := h.exporter.Export(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
