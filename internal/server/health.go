package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthResponse maps each dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func handleHealth(logger *slog.Logger, db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	type result struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]result{
			"sqlite": {Status: "ok"},
		}
		status := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Error("health check failed", "name", "sqlite", "error", err)
			checks["sqlite"] = result{Status: "error"}
			status = http.StatusServiceUnavailable
		}

		if rdb != nil {
			checks["redis"] = result{Status: "ok"}
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Error("health check failed", "name", "redis", "error", err)
				checks["redis"] = result{Status: "error"}
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, checks)
	}
}
