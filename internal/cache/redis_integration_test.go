//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := redis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisClient_Integration(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisClient(RedisConfig{Addr: addr, PoolSize: 2})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Ping(ctx))

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, Key("answer", "BIT", "a"), []byte("one"), time.Minute))
	require.NoError(t, c.Set(ctx, Key("answer", "BIT", "b"), []byte("two"), time.Minute))
	require.NoError(t, c.Set(ctx, Key("answer", "BSC CSIT", "a"), []byte("three"), time.Minute))

	got, err := c.Get(ctx, Key("answer", "BIT", "a"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))

	require.NoError(t, c.DeleteByPrefix(ctx, "answer:BIT:"))
	_, err = c.Get(ctx, Key("answer", "BIT", "b"))
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err = c.Get(ctx, Key("answer", "BSC CSIT", "a"))
	require.NoError(t, err)
	assert.Equal(t, "three", string(got))

	require.NoError(t, c.Delete(ctx, Key("answer", "BSC CSIT", "a")))
	_, err = c.Get(ctx, Key("answer", "BSC CSIT", "a"))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisClient_InvalidateManyKeys(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisClient(RedisConfig{Addr: addr, Prefix: "it:"})
	require.NoError(t, err)
	defer c.Close()

	for i := range 2*unlinkBatch + 7 {
		require.NoError(t, c.Set(ctx, Key("answer", "BIT", fmt.Sprint(i)), []byte("x"), 0))
	}
	require.NoError(t, c.Set(ctx, "other", []byte("kept"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "answer:"))

	n, err := c.client.Exists(ctx, c.namespaced(Key("answer", "BIT", "0")), c.namespaced(Key("answer", "BIT", "206"))).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := c.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
