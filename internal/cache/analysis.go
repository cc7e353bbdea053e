// internal/cache/analysis.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/common/metrics"
	"apptrack-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// AnalysisCache stores resume analysis results in Redis so identical
// resume/job-description pairs do not trigger repeated LLM calls.
type AnalysisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log logger.Logger
}

func NewAnalysisCache(rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *AnalysisCache {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &AnalysisCache{rdb: rdb, ttl: ttl, log: log}
}

// Key derives the cache key from the content of both inputs. Any change
// to either text produces a different key.
func Key(resumeText, jobDescription string) string {
	resumeHash := sha256.Sum256([]byte(resumeText))
	jdHash := sha256.Sum256([]byte(jobDescription))
	return fmt.Sprintf("analysis:%s:%s",
		hex.EncodeToString(resumeHash[:])[:16],
		hex.EncodeToString(jdHash[:])[:16])
}

// Get returns a cached analysis, or nil on miss. Redis failures are
// treated as misses so the cache never blocks an analysis.
func (c *AnalysisCache) Get(ctx context.Context, resumeText, jobDescription string) *models.ResumeAnalysis {
	key := Key(resumeText, jobDescription)

	raw, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		metrics.AnalysisCacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	if err != nil {
		c.log.Warn("analysis cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		metrics.AnalysisCacheHits.WithLabelValues("error").Inc()
		return nil
	}

	var analysis models.ResumeAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		c.log.Warn("analysis cache entry corrupt, dropping", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		c.rdb.Del(ctx, key)
		metrics.AnalysisCacheHits.WithLabelValues("error").Inc()
		return nil
	}

	metrics.AnalysisCacheHits.WithLabelValues("hit").Inc()
	return &analysis
}

// Set stores an analysis result with the configured TTL.
func (c *AnalysisCache) Set(ctx context.Context, resumeText, jobDescription string, analysis *models.ResumeAnalysis) {
	key := Key(resumeText, jobDescription)

	raw, err := json.Marshal(analysis)
	if err != nil {
		c.log.Warn("analysis cache marshal failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("analysis cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
