package redis

import (
	"context"
	"os"
	"testing"
)

// necesita un Redis real: REDIS_TEST_ADDR=localhost:6379
func TestKVStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, Options{Addr: addr, Prefix: "eldercare-test:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	defer s.Delete(ctx, "k")

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("unexpected get %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestNew_DefaultPrefix(t *testing.T) {
	s := New(nil, "")
	if got := s.key("settings:preferences"); got != "eldercare:settings:preferences" {
		t.Fatalf("unexpected key %q", got)
	}
}
