package identity

import (
	"context"
	"errors"

	"github.com/Domenick1991/skybooking/config"
	"github.com/redis/go-redis/v9"
)

var ErrUnknownToken = errors.New("unknown session token")

// Resolver maps a bearer token to an authenticated account id. Token
// issuance lives outside this service.
type Resolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

type RedisResolver struct {
	client *redis.Client
}

func NewRedisResolver(cfg config.RedisConfig) *RedisResolver {
	return &RedisResolver{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (r *RedisResolver) Resolve(ctx context.Context, token string) (int64, error) {
	id, err := r.client.Get(ctx, sessionKey(token)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, ErrUnknownToken
		}
		return 0, err
	}
	return id, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

var _ Resolver = (*RedisResolver)(nil)
