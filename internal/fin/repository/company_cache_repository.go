package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/pkg/common"
	redisPkg "golang-fin-scryper/pkg/redis"

	"github.com/redis/go-redis/v9"
)

// CompanyCacheRepository caches resolved company identities by name.
type CompanyCacheRepository interface {
	Get(ctx context.Context, companyName string) (*dto.CompanyInfo, error)
	Set(ctx context.Context, info *dto.CompanyInfo) error
}

type companyCacheRepository struct {
	redisClient *redisPkg.Client
	ttl         time.Duration
}

// NewCompanyCacheRepository creates a Redis-backed company cache.
func NewCompanyCacheRepository(redisClient *redisPkg.Client, ttl time.Duration) CompanyCacheRepository {
	return &companyCacheRepository{redisClient: redisClient, ttl: ttl}
}

// Get returns the cached company, or nil when it is not cached.
func (r *companyCacheRepository) Get(ctx context.Context, companyName string) (*dto.CompanyInfo, error) {
	val, err := r.redisClient.Get(ctx, fmt.Sprintf(common.RedisKeyCompanyInfo, companyName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var info dto.CompanyInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached company: %w", err)
	}
	return &info, nil
}

// Set stores the company under its name.
func (r *companyCacheRepository) Set(ctx context.Context, info *dto.CompanyInfo) error {
	payload, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return r.redisClient.Set(ctx, fmt.Sprintf(common.RedisKeyCompanyInfo, info.CorpName), payload, r.ttl).Err()
}
