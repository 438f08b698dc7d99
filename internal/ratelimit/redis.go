package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// incrScript bumps the counter and starts the window on the first hit in
// one round trip, so a key can never be left without a TTL.
var incrScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('PTTL', KEYS[1])}
`)

// Redis is a fixed-window limiter shared by every instance pointing at the
// same Redis.
type Redis struct {
	client goredis.Scripter
	limit  int
	window time.Duration
	prefix string
}

func NewRedis(client goredis.Scripter, limit int, win time.Duration) *Redis {
	return &Redis{
		client: client,
		limit:  limit,
		window: win,
		prefix: "ratelimit:",
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	vals, err := incrScript.Run(ctx, r.client, []string{r.prefix + key}, r.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis: %w", err)
	}
	if len(vals) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: redis: unexpected reply %v", vals)
	}

	count, ttl := vals[0], time.Duration(vals[1])*time.Millisecond
	if count <= int64(r.limit) {
		return Decision{Allowed: true}, nil
	}
	if ttl <= 0 {
		ttl = r.window
	}
	return Decision{RetryAfter: ttl}, nil
}
