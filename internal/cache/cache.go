package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/layomi72/clip-factory-pro/internal/analysis"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// AnalysisTTL bounds how long a cached analysis stays valid. Source videos
// are immutable once uploaded, so the TTL mainly caps Redis memory.
const AnalysisTTL = 6 * time.Hour

// AnalysisCache memoizes full pipeline runs per (source URL, preset) pair
// so repeated analyze calls for the same video skip extraction entirely.
type AnalysisCache struct {
	client goredis.UniversalClient
	logger logging.Logger
}

// NewAnalysisCache creates a cache backed by the given Redis client.
func NewAnalysisCache(client goredis.UniversalClient, logger logging.Logger) *AnalysisCache {
	return &AnalysisCache{client: client, logger: logger}
}

// Key derives the cache key for a source URL and scoring preset.
func Key(sourceURL, preset string) string {
	sum := sha256.Sum256([]byte(sourceURL + "|" + preset))
	return "analysis:" + hex.EncodeToString(sum[:])
}

// Get returns the cached candidates for a source, or found=false on miss.
// Redis errors degrade to a miss; the cache is never load-bearing.
func (c *AnalysisCache) Get(ctx context.Context, sourceURL, preset string) ([]analysis.ClipCandidate, bool) {
	raw, err := c.client.Get(ctx, Key(sourceURL, preset)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.WithError(err).Warn("Analysis cache read failed")
		}
		return nil, false
	}

	var candidates []analysis.ClipCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		c.logger.WithError(err).Warn("Analysis cache entry corrupt, dropping")
		_ = c.client.Del(ctx, Key(sourceURL, preset)).Err()
		return nil, false
	}
	return candidates, true
}

// Set stores an analysis result.
func (c *AnalysisCache) Set(ctx context.Context, sourceURL, preset string, candidates []analysis.ClipCandidate) error {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	if err := c.client.Set(ctx, Key(sourceURL, preset), raw, AnalysisTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}
	return nil
}

// Invalidate drops the cached result for a source and preset.
func (c *AnalysisCache) Invalidate(ctx context.Context, sourceURL, preset string) error {
	return c.client.Del(ctx, Key(sourceURL, preset)).Err()
}
