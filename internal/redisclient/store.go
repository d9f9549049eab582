package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mohit83k/bngclients/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix namespaces the per-MAC hashes.
	KeyPrefix = "clients:mac:"
	// SeenKey is a sorted set of MACs scored by created_at in unix milliseconds.
	SeenKey = "clients:seen"

	fieldCreatedAt = "created_at"
)

// Filter selects records during a scan. A nil Filter matches everything.
type Filter interface {
	Match(rec model.ClientRecord) bool
}

// Store defines the record store used by the ingest and export paths.
type Store interface {
	UpsertBatch(ctx context.Context, records []model.ClientRecord) error
	Scan(ctx context.Context, filter Filter) ([]model.ClientRecord, error)
	Delete(ctx context.Context, mac string) error
	Sweep(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore implements the Store interface using go-redis.
// Each client is a hash under KeyPrefix+MAC with a native TTL of model.Retention.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore returns a new RedisStore with auto-reconnect and retry.
func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		MaxRetries:      5,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 1 * time.Second,
	})
	return &RedisStore{client: client, now: time.Now}
}

// Key returns the hash key for a canonical MAC.
func Key(mac string) string {
	return KeyPrefix + mac
}

// UpsertBatch writes every record in one MULTI/EXEC transaction.
// Each record overwrites all fields of its MAC and restarts the TTL.
// Redis does not roll back EXEC, so on error part of the batch may have landed.
func (r *RedisStore) UpsertBatch(ctx context.Context, records []model.ClientRecord) error {
	if len(records) == 0 {
		return nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, rec := range records {
			key := Key(rec.MAC)
			pipe.HSet(ctx, key, hashValues(rec)...)
			pipe.Expire(ctx, key, model.Retention)
			pipe.ZAdd(ctx, SeenKey, redis.Z{
				Score:  float64(rec.CreatedAt.UnixMilli()),
				Member: rec.MAC,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d records in redis: %w", len(records), err)
	}
	return nil
}

// Scan returns every live record accepted by filter, oldest first.
func (r *RedisStore) Scan(ctx context.Context, filter Filter) ([]model.ClientRecord, error) {
	now := r.now()
	cutoff := now.Add(-model.Retention).UnixMilli()

	macs, err := r.client.ZRangeByScore(ctx, SeenKey, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list client keys: %w", err)
	}
	if len(macs) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(macs))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, mac := range macs {
			cmds[i] = pipe.HGetAll(ctx, Key(mac))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read client records: %w", err)
	}

	var out []model.ClientRecord
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // expired between the index read and the fetch
		}
		rec, err := parseHash(fields)
		if err != nil {
			return nil, err
		}
		if rec.Expired(now) {
			continue
		}
		if filter != nil && !filter.Match(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes a client and its index entry.
func (r *RedisStore) Delete(ctx context.Context, mac string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, Key(mac))
		pipe.ZRem(ctx, SeenKey, mac)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", mac, err)
	}
	return nil
}

// Sweep drops index entries whose records are past the retention window.
// The hashes themselves are expired by Redis.
func (r *RedisStore) Sweep(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-model.Retention).UnixMilli()
	n, err := r.client.ZRemRangeByScore(ctx, SeenKey, "-inf", strconv.FormatInt(cutoff, 10)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to sweep client index: %w", err)
	}
	return n, nil
}

// Ping checks connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func hashValues(rec model.ClientRecord) []any {
	return []any{
		model.ColClientIP, rec.ClientIP,
		model.ColMAC, rec.MAC,
		model.ColVLAN, rec.VLAN,
		model.ColGatewayIP, rec.GatewayIP,
		model.ColIndex, rec.RoutingIndex,
		fieldCreatedAt, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func parseHash(fields map[string]string) (model.ClientRecord, error) {
	rec := model.ClientRecord{
		ClientIP:     fields[model.ColClientIP],
		MAC:          fields[model.ColMAC],
		GatewayIP:    fields[model.ColGatewayIP],
		RoutingIndex: fields[model.ColIndex],
	}
	if v := fields[model.ColVLAN]; v != "" {
		vlan, err := strconv.Atoi(v)
		if err != nil {
			return rec, fmt.Errorf("corrupt VLAN for %s: %w", rec.MAC, err)
		}
		rec.VLAN = vlan
	}
	if v := fields[fieldCreatedAt]; v != "" {
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return rec, fmt.Errorf("corrupt created_at for %s: %w", rec.MAC, err)
		}
		rec.CreatedAt = ts
	}
	return rec, nil
}
