package broadcast

import (
	"context"
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
	// NotifyAll sends message to every subscriber, one at a time. A
	// per-subscriber failure is recorded and the loop continues; the whole
	// operation only fails when listing subscribers fails.
	NotifyAll(ctx context.Context, message string) (*domain.BroadcastSummary, error)
	History(ctx context.Context) ([]domain.Broadcast, error)
}

type subscriberStore interface {
	Scan(ctx context.Context) ([]domain.Subscriber, error)
	MarkNotified(ctx context.Context, phoneKey string, at time.Time) error
}

type broadcastStore interface {
	Put(ctx context.Context, b *domain.Broadcast) error
	List(ctx context.Context) ([]domain.Broadcast, error)
}

type service struct {
	subscribers subscriberStore
	broadcasts  broadcastStore
	gateway     sms.Gateway
	metrics     *metrics.Metrics
}

type ServiceDeps struct {
	SubscriberRepo subscriberStore
	BroadcastRepo  broadcastStore
	Gateway        sms.Gateway
	Metrics        *metrics.Metrics
}

func NewService(deps ServiceDeps) Service {
	return &service{
		subscribers: deps.SubscriberRepo,
		broadcasts:  deps.BroadcastRepo,
		gateway:     deps.Gateway,
		metrics:     deps.Metrics,
	}
}

func (s *service) NotifyAll(ctx context.Context, message string) (*domain.BroadcastSummary, error) {
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", domain.ErrBadRequest)
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("sms gateway not configured")
	}

	subs, err := s.subscribers.Scan(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.BroadcastSummary{
		Total:   len(subs),
		Results: make([]domain.BroadcastEntry, 0, len(subs)),
	}
	for i := range subs {
		entry := s.notifyOne(ctx, &subs[i], message)
		if entry.Success {
			summary.Sent++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, entry)
	}

	s.record(ctx, message, summary)
	return summary, nil
}

func (s *service) notifyOne(ctx context.Context, sub *domain.Subscriber, message string) domain.BroadcastEntry {
	entry := domain.BroadcastEntry{Phone: sub.PhoneKey}

	res, err := s.gateway.Send(ctx, phone.ToE164(sub.PhoneKey), message)
	if err != nil {
		s.metrics.ObserveSend("broadcast", "failed")
		slog.Warn("broadcast send failed", "phone", sub.PhoneKey, "err", err)
		entry.Error = err.Error()
		return entry
	}
	if res.ErrorCode != 0 {
		s.metrics.ObserveSend("broadcast", "failed")
		slog.Warn("broadcast send flagged by provider",
			"phone", sub.PhoneKey, "code", res.ErrorCode, "msg", res.ErrorMessage)
		entry.Error = res.ErrorMessage
		if entry.Error == "" {
			entry.Error = fmt.Sprintf("provider error %d", res.ErrorCode)
		}
		return entry
	}

	if err := s.subscribers.MarkNotified(ctx, sub.PhoneKey, time.Now().UTC()); err != nil {
		s.metrics.ObserveSend("broadcast", "failed")
		slog.Warn("could not mark subscriber notified", "phone", sub.PhoneKey, "err", err)
		entry.Error = err.Error()
		return entry
	}

	s.metrics.ObserveSend("broadcast", "ok")
	entry.Success = true
	entry.MessageSID = res.MessageID
	return entry
}

// record persists the run summary. Failing to write the audit record never
// fails a broadcast whose messages already went out.
func (s *service) record(ctx context.Context, message string, summary *domain.BroadcastSummary) {
	if s.broadcasts == nil {
		return
	}
	b := &domain.Broadcast{
		BroadcastID: id.New(),
		Message:     message,
		Total:       summary.Total,
		Sent:        summary.Sent,
		Failed:      summary.Failed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.broadcasts.Put(ctx, b); err != nil {
		slog.Warn("could not record broadcast", "err", err)
	}
}

func (s *service) History(ctx context.Context) ([]domain.Broadcast, error) {
	if s.broadcasts == nil {
		return nil, nil
	}
	return s.broadcasts.List(ctx)
}
