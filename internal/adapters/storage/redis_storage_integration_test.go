//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"agrismart-api/internal/config"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	addr, err := c.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	return addr
}

func TestRedisStorage(t *testing.T) {
	store, err := NewRedisStorage(config.RedisConfig{Addr: startRedis(t)})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if v, err := store.Get("missing"); err != nil || v != nil {
		t.Fatalf("missing key: %v %v", v, err)
	}

	if err := store.Set("10.0.0.1", []byte("3"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get("10.0.0.1"); string(v) != "3" {
		t.Errorf("get = %q", v)
	}

	if err := store.Set("short", []byte("1"), 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if v, _ := store.Get("short"); v != nil {
		t.Errorf("expired key still present: %q", v)
	}

	if err := store.Delete("10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get("10.0.0.1"); v != nil {
		t.Error("deleted key still present")
	}

	// Reset only touches limiter keys.
	_ = store.Set("a", []byte("1"), 0)
	_ = store.Set("b", []byte("1"), 0)
	if err := store.client.Set(context.Background(), "other:key", "keep", 0).Err(); err != nil {
		t.Fatal(err)
	}
	if err := store.Reset(); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get("a"); v != nil {
		t.Error("reset left a limiter key")
	}
	if v, _ := store.client.Get(context.Background(), "other:key").Result(); v != "keep" {
		t.Error("reset removed a foreign key")
	}
}
