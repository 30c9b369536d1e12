package cache

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

//go:generate mockgen -source=snapshot_cache.go -destination=mocks/snapshot_cache.go -package=mocks

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	keyPrefix  = "scorecard:snapshots:"
	defaultTTL = 10 * time.Minute
)

// SnapshotCache memoiza a coleção de snapshots de um negócio entre requisições
type SnapshotCache interface {
	Get(ctx context.Context, businessID string) ([]*domain.WeeklyMetricSnapshot, bool, error)
	Set(ctx context.Context, businessID string, snapshots []*domain.WeeklyMetricSnapshot) error
	Invalidate(ctx context.Context, businessID string) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisSnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

// NewClient abre o cliente Redis a partir da configuração; Addr vazio devolve nil
func NewClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "cache: falha ao conectar no redis %s", cfg.Addr)
	}

	return client, nil
}

func key(businessID string) string {
	return fmt.Sprintf("%s%s", keyPrefix, businessID)
}

func (c *redisSnapshotCache) Get(ctx context.Context, businessID string) ([]*domain.WeeklyMetricSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, key(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "cache: erro ao ler snapshots")
	}

	var snapshots []*domain.WeeklyMetricSnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		// Entrada corrompida é descartada e tratada como miss
		logrus.WithError(err).WithField("business_id", businessID).Warn("cache: entrada inválida descartada")
		_ = c.client.Del(ctx, key(businessID)).Err()
		return nil, false, nil
	}

	return snapshots, true, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, businessID string, snapshots []*domain.WeeklyMetricSnapshot) error {
	raw, err := json.Marshal(snapshots)
	if err != nil {
		return errors.Wrap(err, "cache: erro ao serializar snapshots")
	}

	if err := c.client.Set(ctx, key(businessID), raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "cache: erro ao gravar snapshots")
	}

	return nil
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context, businessID string) error {
	if err := c.client.Del(ctx, key(businessID)).Err(); err != nil {
		return errors.Wrap(err, "cache: erro ao invalidar snapshots")
	}
	return nil
}

// NoopSnapshotCache é usado quando o Redis não está configurado
type NoopSnapshotCache struct{}

func (NoopSnapshotCache) Get(context.Context, string) ([]*domain.WeeklyMetricSnapshot, bool, error) {
	return nil, false, nil
}

func (NoopSnapshotCache) Set(context.Context, string, []*domain.WeeklyMetricSnapshot) error {
	return nil
}

func (NoopSnapshotCache) Invalidate(context.Context, string) error {
	return nil
}
