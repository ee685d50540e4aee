package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/NgocChung1998/BabyCare/internal/config"
	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

const quietPrefTTL = 10 * time.Minute

// RedisClient is the subset of redis.Client the cache depends on.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// QuietPrefCache implements ports.QuietPrefStore as a Redis read-through
// over the subject profile row. The quiet-hours flag is read on every
// gated delivery, so it is the one profile field worth caching. Redis
// failures fall back to the repository.
type QuietPrefCache struct {
	client RedisClient
	repo   ports.GroupRepository
	cb     *gobreaker.CircuitBreaker
}

var _ ports.QuietPrefStore = (*QuietPrefCache)(nil)

func NewQuietPrefCache(client RedisClient, repo ports.GroupRepository) *QuietPrefCache {
	return &QuietPrefCache{
		client: client,
		repo:   repo,
		cb:     config.NewCircuitBreaker("Redis-Prefs"),
	}
}

func quietPrefKey(identity int64) string {
	return fmt.Sprintf("quiet_pref:%d", identity)
}

func (c *QuietPrefCache) QuietHoursEnabled(ctx context.Context, identity int64) (bool, error) {
	cached, err := c.cb.Execute(func() (interface{}, error) {
		val, err := c.client.Get(ctx, quietPrefKey(identity)).Result()
		if err == redis.Nil {
			// A miss is a normal outcome, not a Redis failure.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		log.Printf("quiet prefs: cache read failed for %d: %v", identity, err)
	} else if val, ok := cached.(string); ok {
		return val == "1", nil
	}

	profile, err := c.repo.GetProfile(ctx, identity)
	if err != nil {
		return false, err
	}
	enabled := profile != nil && profile.QuietHoursEnabled

	c.writeCache(ctx, identity, enabled)
	return enabled, nil
}

func (c *QuietPrefCache) SetQuietHoursEnabled(ctx context.Context, identity int64, enabled bool) error {
	profile, err := c.repo.GetProfile(ctx, identity)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &domain.SubjectProfile{Identity: identity}
	}
	profile.QuietHoursEnabled = enabled

	if err := c.repo.UpsertProfile(ctx, *profile); err != nil {
		return err
	}

	c.writeCache(ctx, identity, enabled)
	return nil
}

func (c *QuietPrefCache) writeCache(ctx context.Context, identity int64, enabled bool) {
	val := "0"
	if enabled {
		val = "1"
	}
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, quietPrefKey(identity), val, quietPrefTTL).Err()
	})
	if err != nil {
		log.Printf("quiet prefs: cache write failed for %d: %v", identity, err)
	}
}
