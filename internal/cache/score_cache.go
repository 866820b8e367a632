package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/scoring/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(NewScoreCache),
)

// ScoreCache keeps the latest scoring result per beneficiary in Redis. It is
// advisory: every failure is logged and swallowed so a cache outage never
// affects scoring itself.
type ScoreCache struct {
	client *redis.Client
	log    *zap.Logger
	ttl    time.Duration
}

func NewScoreCache(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *ScoreCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ctx
				return client.Close()
			},
		})
	}

	return &ScoreCache{
		client: client,
		log:    log.Named("cache.score"),
		ttl:    cfg.Redis.TTL,
	}
}

func scoreKey(beneficiaryID string) string {
	return "score:" + beneficiaryID
}

// SetLatest stores the result of a scoring run.
func (c *ScoreCache) SetLatest(ctx context.Context, beneficiaryID string, result domain.CreditScoreResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("score cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, scoreKey(beneficiaryID), payload, c.ttl).Err(); err != nil {
		c.log.Warn("score cache write failed",
			zap.String("beneficiary_id", beneficiaryID),
			zap.Error(err),
		)
	}
}

// GetLatest returns the cached result for a beneficiary, if any.
func (c *ScoreCache) GetLatest(ctx context.Context, beneficiaryID string) (domain.CreditScoreResult, bool) {
	raw, err := c.client.Get(ctx, scoreKey(beneficiaryID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("score cache read failed",
				zap.String("beneficiary_id", beneficiaryID),
				zap.Error(err),
			)
		}
		return domain.CreditScoreResult{}, false
	}

	var result domain.CreditScoreResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.log.Warn("score cache decode failed", zap.Error(err))
		return domain.CreditScoreResult{}, false
	}
	return result, true
}
