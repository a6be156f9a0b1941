package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liquidsuites/launch-api/internal/application/subscription"
	"github.com/liquidsuites/launch-api/internal/domain"
	"github.com/liquidsuites/launch-api/internal/infrastructure/sms"
	"github.com/liquidsuites/launch-api/internal/pkg/validate"
)

// SMSHandler exposes the direct send endpoint.
type SMSHandler struct {
	svc subscription.Service
}

func NewSMSHandler(svc subscription.Service) *SMSHandler {
	return &SMSHandler{svc: svc}
}

func (h *SMSHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SendSMSErrorEnvelope{
			Error: "invalid request body",
		})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, SendSMSErrorEnvelope{
			Error: "Phone number is required",
		})
		return
	}

	out, err := h.svc.SendSMS(r.Context(), req.PhoneNumber, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeJSON(w, http.StatusBadRequest, SendSMSErrorEnvelope{
				Error: "Please enter a valid 10-digit phone number",
			})
			return
		}
		var se *sms.SendError
		if errors.As(err, &se) {
			writeJSON(w, http.StatusInternalServerError, SendSMSErrorEnvelope{
				Error:      "Failed to send SMS",
				Details:    sms.Describe(se),
				Code:       se.Code,
				MessageSID: se.MessageID,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, SendSMSErrorEnvelope{
			Error:   "Failed to send SMS",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, SendSMSEnvelope{
		Success:    true,
		MessageSID: out.MessageSID,
		Status:     string(out.Status),
		Message:    out.Message,
		Warning:    out.Warning,
	})
}
