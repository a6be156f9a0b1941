package http

import (
	"context"
	"io"
	"time"

	"github.com/liquidsuites/launch-api/internal/domain"
	"github.com/liquidsuites/launch-api/internal/infrastructure/sms"
	"github.com/liquidsuites/launch-api/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// SubscriberRepository is the minimal interface the router requires from the
// subscriber store.
type SubscriberRepository interface {
	GetByPhoneKey(ctx context.Context, phoneKey string) (*domain.Subscriber, error)
	Create(ctx context.Context, sub *domain.Subscriber) error
	Scan(ctx context.Context) ([]domain.Subscriber, error)
	MarkNotified(ctx context.Context, phoneKey string, at time.Time) error
}

// BroadcastRepository is the minimal interface the router requires from the
// broadcast audit store.
type BroadcastRepository interface {
	Put(ctx context.Context, b *domain.Broadcast) error
	List(ctx context.Context) ([]domain.Broadcast, error)
}

// ObjectStore is the minimal interface the router requires from an object
// storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Deps holds all infrastructure dependencies for the router. Gateway and
// ObjectStore may be nil; the affected endpoints degrade rather than the
// whole service refusing to start.
type Deps struct {
	SubscriberRepo SubscriberRepository
	BroadcastRepo  BroadcastRepository
	ObjectStore    ObjectStore
	Gateway        sms.Gateway
	Metrics        *metrics.Metrics
	Registry       *prometheus.Registry
}
