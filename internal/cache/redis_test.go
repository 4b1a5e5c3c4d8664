package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func restoreClient() {
	redisNewClient = func(o *redis.Options) Cache { return redis.NewClient(o) }
}

func TestNewRedisClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		t.Cleanup(restoreClient)
		mr := miniredis.RunT(t)

		var opts *redis.Options
		redisNewClient = func(o *redis.Options) Cache {
			opts = o
			return redis.NewClient(o)
		}

		c, err := NewRedisClient(mr.Addr(), "", 2)
		require.NoError(t, err)
		defer c.Close()
		require.Equal(t, mr.Addr(), opts.Addr)
		require.Equal(t, 2, opts.DB)

		require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
		mr.Select(2)
		got, err := mr.Get("k")
		require.NoError(t, err)
		require.Equal(t, "v", got)
	})

	t.Run("ping fail", func(t *testing.T) {
		t.Cleanup(restoreClient)
		closed := false
		redisNewClient = func(o *redis.Options) Cache {
			return &FakeCache{
				PingFn:  func(context.Context) *redis.StatusCmd { return redis.NewStatusResult("", errors.New("fail")) },
				CloseFn: func() error { closed = true; return nil },
			}
		}

		c, err := NewRedisClient("addr", "", 0)
		require.Error(t, err)
		require.Nil(t, c)
		require.True(t, closed)
	})
}
