package idlock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/idlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SerializesSameKey(t *testing.T) {
	l := idlock.NewLocal()

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		maxSeen atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			unlock, err := l.Lock(t.Context(), "42")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Zero(t, l.Len(), "released keys are forgotten")
}

func TestLocal_DifferentKeysDoNotBlock(t *testing.T) {
	l := idlock.NewLocal()

	unlockA, err := l.Lock(t.Context(), "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := l.Lock(t.Context(), "b")
	require.NoError(t, err)
	unlockB()
	unlockB()

	assert.Equal(t, 1, l.Len())
}

func TestLocal_ContextDone(t *testing.T) {
	l := idlock.NewLocal()

	unlock, err := l.Lock(t.Context(), "7")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "7")
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, idlock.CodeLockTimeout))
	assert.Equal(t, errx.T_Conflict, errx.GetType(err))
	assert.Equal(t, 1, l.Len())
}

func TestRedis_Key(t *testing.T) {
	r := idlock.NewRedis(nil, idlock.RedisConfig{Prefix: "fm:lock:"})
	assert.Equal(t, "fm:lock:42", r.Key("42"))
}

func TestRedis_UnreachableServer(t *testing.T) {
	cfg := idlock.RedisConfig{
		Addrs:         "127.0.0.1:1",
		Prefix:        "fm:lock:",
		TTL:           time.Second,
		RetryInterval: time.Millisecond,
	}
	client := idlock.NewRedisClient(cfg)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	_, err := idlock.NewRedis(client, cfg).Lock(ctx, "1")
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, idlock.CodeLockFailed, idlock.CodeLockTimeout))
}
