package handler

import (
	"context"
	"net/http"
	"time"

	"rutaventas/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports store connectivity, connection pool pressure and the size of
// each dead-letter queue. It never exposes credentials or error text.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{"db": "connected", "redis": "connected"}
		healthy := true

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			body["db"] = "error"
			healthy = false
		} else {
			// Sales hold a pooled connection for the whole locked section.
			st := sqlDB.Stats()
			body["db_pool"] = gin.H{"open": st.OpenConnections, "in_use": st.InUse, "wait_count": st.WaitCount}
		}

		if rdb.Ping(ctx).Err() != nil {
			body["redis"] = "error"
			healthy = false
		} else {
			dlq := gin.H{}
			for _, q := range []string{worker.QueueComprobante, worker.QueueEmail} {
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					dlq[q] = n
				}
			}
			body["dlq"] = dlq
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = healthy
		c.JSON(status, body)
	}
}
