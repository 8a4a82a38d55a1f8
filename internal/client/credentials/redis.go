package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisHash = "guildadmin:credentials"

// RedisOptions configures NewRedisRepository.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	// Hash is the Redis hash holding every entry; defaults to guildadmin:credentials.
	Hash string
}

// RedisRepository stores all entries as fields of a single Redis hash, so
// multi-key writes and deletes are atomic.
type RedisRepository struct {
	client *redis.Client
	hash   string
}

var _ Repository = (*RedisRepository)(nil)

// NewRedisRepository connects to Redis and verifies the connection.
func NewRedisRepository(ctx context.Context, opts RedisOptions) (*RedisRepository, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	hash := opts.Hash
	if hash == "" {
		hash = defaultRedisHash
	}
	return &RedisRepository{client: client, hash: hash}, nil
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.HGet(ctx, r.hash, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential[%s]: %w", key, err)
	}
	return v, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.HSet(ctx, r.hash, key, value).Err(); err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", key, err)
	}
	return nil
}

// Update runs HSET and HDEL in one MULTI/EXEC block.
func (r *RedisRepository) Update(ctx context.Context, set map[string][]byte, del ...string) error {
	if len(set) == 0 && len(del) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(set))
	for k, v := range set {
		fields[k] = v
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(fields) > 0 {
			pipe.HSet(ctx, r.hash, fields)
		}
		if len(del) > 0 {
			pipe.HDel(ctx, r.hash, del...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.hash, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete credential%v: %w", keys, err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
