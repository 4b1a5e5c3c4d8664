// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix Redis 中限流計數器的前綴
const KeyPrefix = "ratelimit"

// fixedWindow 以固定視窗計數：首次命中設定 PX 過期，
// 超過上限時不再遞增並回傳剩餘毫秒數，未超過回傳 0
var fixedWindow = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = ARGV[2]
local current = tonumber(redis.call("GET", key) or "0")
if current > 0 then
  if current + 1 > limit then
    local ttl = redis.call("PTTL", key)
    if ttl <= 0 then
      ttl = 1
    end
    return ttl
  end
  redis.call("INCR", key)
  return 0
end
redis.call("SET", key, 1, "PX", window)
return 0
`)

// Limiter 在 window 期間內每個 key 最多允許 times 次請求
type Limiter struct {
	store  redis.Scripter
	times  int
	window time.Duration
}

// New 建立 Limiter；store 為共用的 Redis 連線
func New(store redis.Scripter, times int, window time.Duration) *Limiter {
	return &Limiter{store: store, times: times, window: window}
}

// Times 回傳每個視窗允許的次數
func (l *Limiter) Times() int { return l.times }

// Window 回傳視窗長度
func (l *Limiter) Window() time.Duration { return l.window }

// Allow 對 key 計數一次；被拒絕時回傳需等待的時間
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	ms, err := fixedWindow.Run(ctx, l.store,
		[]string{fmt.Sprintf("%s:%s", KeyPrefix, key)},
		l.times, l.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: %w", err)
	}
	if ms == 0 {
		return true, 0, nil
	}
	return false, time.Duration(ms) * time.Millisecond, nil
}
