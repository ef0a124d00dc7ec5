package idlock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var errBusy = errors.New("lock is held by another owner")

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by someone else is left alone.
//
//nolint:gochecknoglobals // compiled once, shared by all lockers
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewRedisClient creates a client for a single node or a cluster.
func NewRedisClient(cfg RedisConfig) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:         strings.Split(cfg.Addrs, ","),
		Username:      cfg.Username,
		Password:      cfg.Password,
		IsClusterMode: cfg.IsClusterMode,
	})
}

// Redis is a Locker backed by SET NX PX with a random owner token.
type Redis struct {
	client redis.Cmdable
	cfg    RedisConfig
}

// NewRedis creates a Redis locker on top of client.
func NewRedis(client redis.Cmdable, cfg RedisConfig) *Redis {
	return &Redis{client: client, cfg: cfg}
}

// Key returns the Redis key used for the lock on key.
func (r *Redis) Key(key string) string {
	return r.cfg.Prefix + key
}

func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := r.Key(key)
	token := uuid.NewString()

	err := retry.Do(
		func() error {
			ok, err := r.client.SetNX(ctx, redisKey, token, r.cfg.TTL).Result()
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if !ok {
				return errBusy
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(r.cfg.RetryInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errBusy) }),
	)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, timeoutErr(ctx, key)
	default:
		return nil, errx.Wrap(err,
			errx.WithCode(CodeLockFailed),
			errx.WithDetails(errx.D{"key": redisKey}),
		)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be canceled; release anyway.
			_ = releaseScript.Run(context.WithoutCancel(ctx), r.client, []string{redisKey}, token).Err()
		})
	}, nil
}
