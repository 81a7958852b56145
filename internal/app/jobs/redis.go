package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
)

const defaultKeyPrefix = "transcriber:jobs:"

// RedisRegistry shares job snapshots between processes. Each job is a JSON
// string under prefix+id; a sorted set scored by submission time indexes them.
type RedisRegistry struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Registry = (*RedisRegistry)(nil)

// NewRedisRegistry uses client as is. A zero ttl keeps snapshots forever.
func NewRedisRegistry(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisRegistry {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisRegistry{client: client, prefix: prefix, ttl: ttl}
}

// DialRedis connects to addr and checks the server answers.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.Store(err, "connect to redis at %s", addr)
	}
	return client, nil
}

func (r *RedisRegistry) jobKey(id string) string {
	return r.prefix + id
}

func (r *RedisRegistry) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisRegistry) Put(ctx context.Context, job model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return apperrors.Store(err, "encode job %s", job.ID)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.jobKey(job.ID), data, r.ttl)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(job.SubmittedAt.UnixMilli()), Member: job.ID})
		return nil
	})
	if err != nil {
		return apperrors.Store(err, "save job %s", job.ID)
	}
	return nil
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (model.Job, error) {
	data, err := r.client.Get(ctx, r.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Job{}, apperrors.NotFound("job", id)
	}
	if err != nil {
		return model.Job{}, apperrors.Store(err, "load job %s", id)
	}
	return decodeJob(data)
}

func (r *RedisRegistry) List(ctx context.Context, limit int) ([]model.Job, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, apperrors.Store(err, "list jobs")
	}
	if len(ids) == 0 {
		return []model.Job{}, nil
	}

	keys := lo.Map(ids, func(id string, _ int) string { return r.jobKey(id) })
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.Store(err, "load jobs")
	}

	all := make([]model.Job, 0, len(values))
	var expired []any
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// snapshot expired; drop the stale index entry
			expired = append(expired, ids[i])
			continue
		}
		job, err := decodeJob([]byte(s))
		if err != nil {
			return nil, err
		}
		all = append(all, job)
	}
	if len(expired) > 0 {
		r.client.ZRem(ctx, r.indexKey(), expired...)
	}

	sortNewestFirst(all)
	return all, nil
}

func decodeJob(data []byte) (model.Job, error) {
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, apperrors.Store(err, "decode job")
	}
	if job.Artifacts == nil {
		job.Artifacts = make(map[model.ArtifactKind]string)
	}
	return job, nil
}
