package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "ratelimit:42:messages", messageKey("42"))
}

func TestNewRateLimiter_FillsDefaults(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	rl := NewRateLimiter(client, RateLimitConfig{})
	assert.Equal(t, DefaultRateLimitConfig(), rl.config)

	rl = NewRateLimiter(client, RateLimitConfig{MessageLimit: 5, MessageWindow: 10 * time.Second})
	assert.Equal(t, 5, rl.config.MessageLimit)
	assert.Equal(t, 10*time.Second, rl.config.MessageWindow)
}

func TestAllowMessage_ReturnsErrorWhenRedisIsDown(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rl := NewRateLimiter(client, DefaultRateLimitConfig())
	res, err := rl.AllowMessage(context.Background(), "user-1")

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "rate limit check failed")
}
