package attachments

import (
	"bytes"
	"context"
	"errors"
	"path"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, ttl), mr
}

func TestRedisStoreFetchRoundTrip(t *testing.T) {
	s, _ := newRedisStore(t, 0)
	ctx := context.Background()

	url, err := s.Store(ctx, []byte("pdf bytes"), Metadata{Name: "doc.pdf", MimeType: "application/pdf"})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	data, meta, err := s.Fetch(ctx, url)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Equal(data, []byte("pdf bytes")) {
		t.Fatalf("unexpected data %q", data)
	}
	if meta.Name != "doc.pdf" || meta.MimeType != "application/pdf" {
		t.Fatalf("unexpected metadata %#v", meta)
	}
}

func TestRedisFetchUnknown(t *testing.T) {
	s, _ := newRedisStore(t, 0)
	if _, _, err := s.Fetch(context.Background(), "/api/attachments/nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisTTLApplied(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	url, err := s.Store(ctx, []byte("x"), Metadata{Name: "f", MimeType: "image/png"})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	key := redisKeyPrefix + path.Base(url)
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, _, err := s.Fetch(ctx, url); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}
