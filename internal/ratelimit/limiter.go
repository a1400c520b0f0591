package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ipWindow      = 15 * time.Minute
	ipMaxRequests = 10
	emailCooldown = 2 * time.Minute
)

// Limiter implements a fixed-window IP rate limit and a per-email
// cooldown on top of Redis. Limiter failures are reported to the
// caller, which decides whether to fail open.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

func ipKey(ip string) string {
	return fmt.Sprintf("ratelimit:ip:%s", ip)
}

func emailKey(email string) string {
	return fmt.Sprintf("ratelimit:email:%s", email)
}

// CheckIPRateLimit reports whether the IP has exhausted its window
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(ip)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check IP rate limit: %w", err)
	}

	return count >= ipMaxRequests, nil
}

// RecordIPRequest counts a request against the IP's window. The TTL
// is set on the first request of the window only.
func (l *Limiter) RecordIPRequest(ctx context.Context, ip string) error {
	key := ipKey(ip)

	pipe := l.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ipWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record IP request: %w", err)
	}

	return nil
}

// CheckEmailCooldown reports whether the email is still cooling down
func (l *Limiter) CheckEmailCooldown(ctx context.Context, email string) (bool, error) {
	exists, err := l.client.Exists(ctx, emailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check email cooldown: %w", err)
	}

	return exists > 0, nil
}

// SetEmailCooldown starts the cooldown window for an email
func (l *Limiter) SetEmailCooldown(ctx context.Context, email string) error {
	if err := l.client.Set(ctx, emailKey(email), "1", emailCooldown).Err(); err != nil {
		return fmt.Errorf("failed to set email cooldown: %w", err)
	}

	return nil
}
