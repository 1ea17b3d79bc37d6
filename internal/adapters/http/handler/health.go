package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker は稼働確認のユースケースです。
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthHandler は GET /health を提供します。
type HealthHandler struct {
	checker HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(checker HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HealthHandler{checker: checker, logger: logger}
}

func (h *HealthHandler) Mount(r gin.IRoutes) {
	r.GET("/health", h.Check)
}

// Check はストアへ疎通できれば 200 を、できなければ 503 を返します。
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.checker.Check(c.Request.Context()); err != nil {
		h.logger.WarnContext(c.Request.Context(), "health check failed", slog.Any("error", err))
		writeProblem(c, http.StatusServiceUnavailable, "store is unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
