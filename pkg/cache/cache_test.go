package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheFromClient(client), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "reputation:user-1", "72.5", 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "reputation:user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "72.5" {
		t.Errorf("Expected 72.5, got %s", val)
	}
}

func TestRedisCache_GetMissingKey(t *testing.T) {
	c, _ := setupTestCache(t)

	val, err := c.Get(context.Background(), "reputation:absent")
	if err != nil {
		t.Fatalf("Get on missing key should not error, got: %v", err)
	}
	if val != "" {
		t.Errorf("Expected empty string for missing key, got %s", val)
	}
}

func TestRedisCache_Del(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "reputation:user-2", "50", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Del(ctx, "reputation:user-2"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}

	val, err := c.Get(ctx, "reputation:user-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected key to be deleted, got %s", val)
	}
}

func TestRedisCache_Expiration(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "reputation:user-3", "64", 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(6 * time.Minute)

	val, err := c.Get(ctx, "reputation:user-3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected key to expire, got %s", val)
	}
}

func TestRedisCache_Health(t *testing.T) {
	c, mr := setupTestCache(t)

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health should pass: %v", err)
	}

	mr.Close()
	if err := c.Health(context.Background()); err == nil {
		t.Error("Health should fail after server shutdown")
	}
}
