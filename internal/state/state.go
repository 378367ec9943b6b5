package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/catalog/internal/domain"

	"github.com/redis/go-redis/v9"
)

const lastRunKey = "catalog:state:last_run"

// RunState describes the last successful run.
type RunState struct {
	Fingerprint   string    `json:"fingerprint"`
	TotalProducts int       `json:"totalProducts"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

type StateManager interface {
	GetLastRun(ctx context.Context) (*RunState, error)
	SetLastRun(ctx context.Context, run RunState) error
}

type redisStateManager struct {
	redisClient *redis.Client
	key         string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		key:         lastRunKey,
	}
}

// GetLastRun returns nil without error when no run was recorded yet.
func (s *redisStateManager) GetLastRun(ctx context.Context) (*RunState, error) {
	val, err := s.redisClient.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last run state: %w", err)
	}

	var run RunState
	if err := json.Unmarshal([]byte(val), &run); err != nil {
		return nil, fmt.Errorf("failed to decode last run state: %w", err)
	}
	return &run, nil
}

func (s *redisStateManager) SetLastRun(ctx context.Context, run RunState) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run state: %w", err)
	}
	if err := s.redisClient.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set last run state: %w", err)
	}
	return nil
}

// Fingerprint hashes the serialized brands and catalog, leaving out the
// generation timestamp so identical input yields identical fingerprints.
func Fingerprint(snap *domain.Snapshot) (string, error) {
	data, err := json.Marshal(struct {
		Brands  map[string]domain.BrandRecord `json:"brands"`
		Catalog domain.Catalog                `json:"catalog"`
	}{snap.Brands, snap.Catalog})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot for fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
