package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	planSummaryKeyPrefix = "plan:summary"
	planScanBatchSize    = 100
	defaultPlanTTL       = time.Minute
	dialTimeout          = 5 * time.Second
)

// PlanCache stores plan summaries keyed by the filter that produced them.
// A full planning run is expensive, so served results stay valid for the
// configured TTL and are invalidated wholesale after a new run.
type PlanCache interface {
	GetSummary(ctx context.Context, filter domain.PlanFilter) (*domain.PlanSummary, bool, error)
	SetSummary(ctx context.Context, filter domain.PlanFilter, summary *domain.PlanSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	client, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.PlanTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultPlanTTL
	}

	return &redisPlanCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

// dialRedis prefers a full REDIS_URL and falls back to host/port fields.
// The ping catches bad credentials at startup instead of on first lookup.
func dialRedis(cfg config.CacheConfig) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		host, port := cfg.RedisHost, cfg.RedisPort
		if host == "" {
			host = "127.0.0.1"
		}
		if port == "" {
			port = "6379"
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(host, port),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (c *redisPlanCache) GetSummary(ctx context.Context, filter domain.PlanFilter) (*domain.PlanSummary, bool, error) {
	key := buildPlanSummaryKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.PlanSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode plan summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisPlanCache) SetSummary(ctx context.Context, filter domain.PlanFilter, summary *domain.PlanSummary) error {
	key := buildPlanSummaryKey(filter)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode plan summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateAll walks every plan summary key with SCAN so the whole
// keyspace is never blocked the way KEYS would.
func (c *redisPlanCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	pattern := planSummaryKeyPrefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, planScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (n *noopPlanCache) GetSummary(ctx context.Context, filter domain.PlanFilter) (*domain.PlanSummary, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetSummary(ctx context.Context, filter domain.PlanFilter, summary *domain.PlanSummary) error {
	return nil
}

func (n *noopPlanCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildPlanSummaryKey(filter domain.PlanFilter) string {
	return fmt.Sprintf("%s:%s", planSummaryKeyPrefix, planFilterHash(filter))
}

func planFilterHash(filter domain.PlanFilter) string {
	parts := []string{}

	if filter.Facility != "" {
		parts = append(parts, "facility="+strings.ToLower(strings.TrimSpace(filter.Facility)))
	}
	if filter.Item != "" {
		parts = append(parts, "item="+strings.ToLower(strings.TrimSpace(filter.Item)))
	}
	if filter.Risk != "" {
		parts = append(parts, "risk="+strings.ToUpper(strings.TrimSpace(filter.Risk)))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
