package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  int64  `json:"uptime"`
}

type DBStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ReadyResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version"`
	Uptime  int64    `json:"uptime"`
	DB      DBStatus `json:"db"`
}

type HealthHandler struct {
	db        *gorm.DB
	startTime time.Time
	version   string
}

func NewHealthHandler(db *gorm.DB, startTime time.Time, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: startTime,
		version:   version,
	}
}

func (h *HealthHandler) RegisterRoutes(e *gin.Engine) {
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
}

func (h *HealthHandler) uptime() int64 {
	return int64(time.Since(h.startTime).Seconds())
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  h.uptime(),
	})
}

// Ready pings the database. It answers 503 while the database is down.
func (h *HealthHandler) Ready(c *gin.Context) {
	resp := ReadyResponse{
		Status:  "ready",
		Version: h.version,
		Uptime:  h.uptime(),
		DB:      DBStatus{Status: "up"},
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		slog.WarnContext(c.Request.Context(), "readiness check failed", "error", err)
		resp.Status = "unhealthy"
		resp.DB = DBStatus{Status: "down", Error: err.Error()}
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
