package redis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

func TestModelStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewModelStore(client, "irisd:model", zaptest.NewLogger(t))

	_, err := store.Fetch(context.Background())
	if err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("connection failure must not look like a missing key: %v", err)
	}
	if !strings.Contains(err.Error(), "failed to get artifact") {
		t.Fatalf("unexpected error %q", err)
	}
	if store.Location() != "redis://irisd:model" {
		t.Fatalf("unexpected location %q", store.Location())
	}
}

// TestModelStore_PublishFetch needs a live server; set IRISD_TEST_REDIS_ADDR to run it.
func TestModelStore_PublishFetch(t *testing.T) {
	addr := os.Getenv("IRISD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("IRISD_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	key := "irisd:test:" + uuid.NewString()
	defer client.Del(ctx, key)

	store := NewModelStore(client, key, zaptest.NewLogger(t))

	if _, err := store.Fetch(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before publish, got %v", err)
	}

	if err := store.Publish(ctx, []byte(`{"format_version":1}`)); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	data, err := store.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != `{"format_version":1}` {
		t.Fatalf("unexpected data %q", data)
	}
}
