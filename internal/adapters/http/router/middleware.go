package router

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/chiragthakuri/time-tracker/internal/adapters/http/handler"
	"github.com/chiragthakuri/time-tracker/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sloghttp "github.com/samber/slog-http"
)

// RequestIDHeader はリクエスト ID を受け渡す HTTP ヘッダーです。
const RequestIDHeader = "X-Request-ID"

// requestID は受信したリクエスト ID を引き継ぎ、無ければ採番します。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(handler.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		sloghttp.AddCustomAttributes(c.Request, slog.String("request_id", id))

		c.Next()
	}
}

func observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
