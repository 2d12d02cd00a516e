// Package health aggregates dependency health checks.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// checkTimeout bounds each dependency probe.
const checkTimeout = 2 * time.Second

// Check probes a single dependency.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Aggregator runs registered checks and reports overall health.
type Aggregator struct {
	checks []Check
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Register adds a named check.
func (a *Aggregator) Register(name string, probe func(ctx context.Context) error) {
	a.checks = append(a.checks, Check{Name: name, Probe: probe})
}

// RegisterDatabase adds a gorm-backed Postgres ping.
func (a *Aggregator) RegisterDatabase(db *gorm.DB) {
	a.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

// RegisterRedis adds a Redis ping.
func (a *Aggregator) RegisterRedis(client *redis.Client) {
	a.Register("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

// Handler returns the /health endpoint. 200 when every check passes,
// 503 otherwise, with per-dependency statuses in the body.
func (a *Aggregator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		statuses := make(map[string]string, len(a.checks))
		healthy := true

		for _, check := range a.checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			err := check.Probe(ctx)
			cancel()

			if err != nil {
				statuses[check.Name] = "unhealthy"
				healthy = false
			} else {
				statuses[check.Name] = "healthy"
			}
		}

		status := http.StatusOK
		overall := "healthy"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"checks":    statuses,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
