package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openbooks/backend/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process liveness and dependency readiness
type HealthHandler struct {
	BaseHandler
	db    *persistence.Database
	cache *redis.Client
}

// NewHealthHandler creates a new HealthHandler. The cache client may
// be nil when Redis is disabled.
func NewHealthHandler(db *persistence.Database, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// RegisterRoutes registers health routes
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Live)
	rg.GET("/health/ready", h.Ready)
}

// Live reports that the process is up
func (h *HealthHandler) Live(c *gin.Context) {
	h.Success(c, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// Ready reports whether the database and cache are reachable
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	healthy := true

	if err := h.db.Ping(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": checks})
		return
	}
	h.Success(c, gin.H{"status": "ok", "checks": checks})
}
