package ranking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

type fakeKV struct {
	values map[string]string
	ttl    time.Duration
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = fmt.Sprint(value)
	f.ttl = ttl
	return nil
}

func (f *fakeKV) CacheKey(parts ...string) string {
	return "rp:cache:" + strings.Join(parts, ":")
}

func TestRedisHomepageCacheRoundTrip(t *testing.T) {
	kv := &fakeKV{values: map[string]string{}}
	cache, err := NewRedisHomepageCache(kv)
	if err != nil {
		t.Fatalf("NewRedisHomepageCache: %v", err)
	}

	if _, ok, err := cache.Load(context.Background()); err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	entries := []Ranked{{ID: uuid.New(), Score: 3000, Manual: true}, {ID: uuid.New(), Score: 48.5}}
	if err := cache.Store(context.Background(), entries, time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, ok := kv.values["rp:cache:ranking:homepage"]; !ok {
		t.Fatalf("expected homepage key to be written, got %v", kv.values)
	}

	got, ok, err := cache.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0] != entries[0] || got[1] != entries[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRedisHomepageCacheCorruptValueIsMiss(t *testing.T) {
	kv := &fakeKV{values: map[string]string{"rp:cache:ranking:homepage": "{not json"}}
	cache, err := NewRedisHomepageCache(kv)
	if err != nil {
		t.Fatalf("NewRedisHomepageCache: %v", err)
	}
	if _, ok, err := cache.Load(context.Background()); err != nil || ok {
		t.Fatalf("expected miss for corrupt payload, ok=%v err=%v", ok, err)
	}
}
