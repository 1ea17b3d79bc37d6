package handler

import (
	"log/slog"
	"net/http"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/gin-gonic/gin"
)

// ProblemContentType は RFC 7807 のメディアタイプです。
const ProblemContentType = "application/problem+json"

const internalErrorDetail = "the request could not be completed, see server logs"

// Problem は RFC 7807 のエラーレスポンスです。
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func toStatusCode(err error) int {
	switch resource.KindOf(err) {
	case resource.KindInvalidRequest:
		return http.StatusBadRequest
	case resource.KindNotFound:
		return http.StatusNotFound
	default:
		// 競合はサービス層で NotFound か永続化エラーへ解決済みのはず
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status := toStatusCode(err)

	detail := resource.DetailOf(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("kind", resource.KindOf(err).String()),
			slog.Any("error", err),
		)
		detail = internalErrorDetail
	}

	writeProblem(c, status, detail)
}

func writeProblem(c *gin.Context, status int, detail string) {
	c.Header("Content-Type", ProblemContentType)
	c.AbortWithStatusJSON(status, Problem{
		Type:      "about:blank",
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    detail,
		Instance:  c.Request.URL.Path,
		RequestID: c.GetString(RequestIDKey),
	})
}
