package service

import (
	"context"
	"testing"
	"time"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/errors"
)

type memCache struct {
	values map[string]string
	gets   int
}

func (m *memCache) Get(ctx context.Context, key string) (string, error) {
	m.gets++
	return m.values[key], nil
}

func (m *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memCache) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (m *memCache) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

func TestAccessTokenRequiresRefreshToken(t *testing.T) {
	provider := NewTokenProvider(config.GoogleAPIConfig{}, nil)
	_, appErr := provider.AccessToken(context.Background())
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized for missing refresh token, got %v", appErr)
	}
}

func TestAccessTokenServedFromCache(t *testing.T) {
	c := &memCache{values: map[string]string{constants.CacheKeyCalendarToken: "cached-tok"}}
	provider := NewTokenProvider(config.GoogleAPIConfig{RefreshToken: "refresh-1"}, c)

	token, appErr := provider.AccessToken(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if token != "cached-tok" {
		t.Errorf("token = %q, want cached-tok", token)
	}
	if c.gets != 1 {
		t.Errorf("cache gets = %d, want 1", c.gets)
	}
}
