package attachments

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "attachment:"

// Redis stores attachments in Redis hashes, one hash per attachment.
// With a non-zero TTL each attachment expires after the given duration.
type Redis struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewRedis creates a Redis-backed store using the provided client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if client == nil {
		panic("attachments.NewRedis: client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{rc: client, ttl: ttl}
}

func (r *Redis) Store(ctx context.Context, data []byte, meta Metadata) (string, error) {
	id := uuid.NewString()
	key := redisKeyPrefix + id

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, key, "data", data, "name", meta.Name, "mime", meta.MimeType)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return "/api/attachments/" + id, nil
}

func (r *Redis) Fetch(ctx context.Context, url string) ([]byte, Metadata, error) {
	key := redisKeyPrefix + path.Base(url)
	fields, err := r.rc.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, Metadata{}, err
	}
	if len(fields) == 0 {
		return nil, Metadata{}, ErrNotFound
	}
	return []byte(fields["data"]), Metadata{Name: fields["name"], MimeType: fields["mime"]}, nil
}
