package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/liquidsuites/launch-api/internal/domain"
	"github.com/liquidsuites/launch-api/internal/infrastructure/sms"
	"github.com/liquidsuites/launch-api/internal/observability/metrics"
	"github.com/liquidsuites/launch-api/internal/pkg/id"
	"github.com/liquidsuites/launch-api/internal/pkg/phone"
)

type Service interface {
	// Subscribe normalizes rawPhone, rejects duplicates, persists a new
	// subscriber and fires the welcome SMS. Once the record is saved the
	// call succeeds regardless of the SMS outcome.
	Subscribe(ctx context.Context, rawPhone string) (*Outcome, error)
	// SendSMS sends a one-off message, falling back to the configured
	// welcome text when message is empty.
	SendSMS(ctx context.Context, rawPhone, message string) (*SendOutcome, error)
	List(ctx context.Context) ([]domain.Subscriber, error)
}

type subscriberStore interface {
	GetByPhoneKey(ctx context.Context, phoneKey string) (*domain.Subscriber, error)
	Create(ctx context.Context, sub *domain.Subscriber) error
	Scan(ctx context.Context) ([]domain.Subscriber, error)
}

// Outcome is the caller-facing result of a successful subscribe.
type Outcome struct {
	ID      string
	Warning string
}

// SendOutcome is the caller-facing result of a direct send.
type SendOutcome struct {
	MessageSID string
	Status     sms.Status
	Message    string
	Warning    string
}

type service struct {
	repo    subscriberStore
	gateway sms.Gateway
	welcome string
	metrics *metrics.Metrics
}

type ServiceDeps struct {
	SubscriberRepo subscriberStore
	Gateway        sms.Gateway
	WelcomeMessage string
	Metrics        *metrics.Metrics
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.SubscriberRepo,
		gateway: deps.Gateway,
		welcome: deps.WelcomeMessage,
		metrics: deps.Metrics,
	}
}

func (s *service) Subscribe(ctx context.Context, rawPhone string) (*Outcome, error) {
	key, err := phone.Normalize(rawPhone)
	if err != nil {
		s.metrics.ObserveSubscribe("invalid")
		return nil, fmt.Errorf("phone number must be a 10-digit number: %w", domain.ErrBadRequest)
	}

	if _, err := s.repo.GetByPhoneKey(ctx, key); err == nil {
		s.metrics.ObserveSubscribe("duplicate")
		return nil, fmt.Errorf("phone number already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.metrics.ObserveSubscribe("error")
		return nil, err
	}

	sub := &domain.Subscriber{
		PhoneKey:     key,
		SubscriberID: id.New(),
		DisplayPhone: rawPhone,
		Notified:     false,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		// Another request won the conditional put between check and create.
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.ObserveSubscribe("duplicate")
			return nil, err
		}
		s.metrics.ObserveSubscribe("error")
		return nil, err
	}
	s.metrics.ObserveSubscribe("created")

	return &Outcome{ID: sub.SubscriberID, Warning: s.sendWelcome(ctx, key)}, nil
}

// sendWelcome fires the confirmation SMS. The record is already persisted,
// so every failure here is logged and swallowed; a compliance hold comes
// back as a warning for the subscriber.
func (s *service) sendWelcome(ctx context.Context, phoneKey string) string {
	if s.gateway == nil {
		return ""
	}
	res, err := s.gateway.Send(ctx, phone.ToE164(phoneKey), s.welcome)
	if err != nil {
		var se *sms.SendError
		if errors.As(err, &se) && se.Kind == sms.FailurePendingCompliance {
			s.metrics.ObserveSend("welcome", "held")
			slog.Info("welcome SMS held for campaign approval", "phone", phoneKey)
			return sms.ComplianceHoldNotice
		}
		s.metrics.ObserveSend("welcome", "failed")
		slog.Warn("welcome SMS failed", "phone", phoneKey, "err", err)
		return ""
	}
	if res.ErrorCode != 0 {
		if sms.Classify(res.ErrorCode, res.ErrorMessage, 0) == sms.FailurePendingCompliance {
			s.metrics.ObserveSend("welcome", "held")
			slog.Info("welcome SMS held for campaign approval",
				"phone", phoneKey, "code", res.ErrorCode)
			return sms.ComplianceHoldNotice
		}
		s.metrics.ObserveSend("welcome", "failed")
		slog.Warn("welcome SMS flagged by provider",
			"phone", phoneKey, "code", res.ErrorCode, "msg", res.ErrorMessage)
		return ""
	}
	s.metrics.ObserveSend("welcome", "ok")
	return ""
}

func (s *service) SendSMS(ctx context.Context, rawPhone, message string) (*SendOutcome, error) {
	key, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, fmt.Errorf("phone number must be a 10-digit number: %w", domain.ErrBadRequest)
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("sms gateway not configured")
	}
	if message == "" {
		message = s.welcome
	}

	res, err := s.gateway.Send(ctx, phone.ToE164(key), message)
	if err != nil {
		s.metrics.ObserveSend("direct", "failed")
		return nil, err
	}
	if res.ErrorCode != 0 {
		s.metrics.ObserveSend("direct", "failed")
		return nil, &sms.SendError{
			Kind:      sms.Classify(res.ErrorCode, res.ErrorMessage, 0),
			Code:      res.ErrorCode,
			Message:   res.ErrorMessage,
			MessageID: res.MessageID,
		}
	}

	out := &SendOutcome{MessageSID: res.MessageID, Status: res.Status}
	switch res.Status {
	case sms.StatusDelivered:
		out.Message = "SMS sent successfully"
	case sms.StatusQueued, sms.StatusSent, sms.StatusSending:
		out.Message = "SMS queued successfully"
		out.Warning = sms.QueuedDeliveryNotice
	default:
		out.Message = "SMS processed"
		out.Warning = fmt.Sprintf("Message status: %s. Delivery may be delayed.", res.Status)
	}
	s.metrics.ObserveSend("direct", "ok")
	return out, nil
}

func (s *service) List(ctx context.Context) ([]domain.Subscriber, error) {
	return s.repo.Scan(ctx)
}
