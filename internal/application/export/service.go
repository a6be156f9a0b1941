package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/liquidsuites/launch-api/internal/domain"
)

// Service writes a CSV snapshot of the subscriber roster to object storage.
type Service interface {
	Export(ctx context.Context) (*Result, error)
}

type subscriberStore interface {
	Scan(ctx context.Context) ([]domain.Subscriber, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Result points at the uploaded snapshot.
type Result struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Subscribers int    `json:"subscribers"`
}

type service struct {
	subscribers subscriberStore
	objects     objectStore
	urlTTL      time.Duration
}

func NewService(subscribers subscriberStore, objects objectStore) Service {
	return &service{
		subscribers: subscribers,
		objects:     objects,
		urlTTL:      15 * time.Minute,
	}
}

func (s *service) Export(ctx context.Context) (*Result, error) {
	subs, err := s.subscribers.Scan(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "phone", "formatted_phone", "notified", "notified_at", "created_at"})
	for i := range subs {
		sub := &subs[i]
		notifiedAt := ""
		if sub.NotifiedAt != nil {
			notifiedAt = sub.NotifiedAt.UTC().Format(time.RFC3339)
		}
		_ = w.Write([]string{
			sub.SubscriberID,
			sub.PhoneKey,
			sub.DisplayPhone,
			strconv.FormatBool(sub.Notified),
			notifiedAt,
			sub.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	key := fmt.Sprintf("exports/subscribers-%s.csv", time.Now().UTC().Format("20060102T150405Z"))
	if _, err := s.objects.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "text/csv"); err != nil {
		return nil, err
	}
	url, err := s.objects.PresignedURL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, err
	}
	return &Result{Key: key, URL: url, Subscribers: len(subs)}, nil
}
