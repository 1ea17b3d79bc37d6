package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chiragthakuri/time-tracker/internal/core/patch"
	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/chiragthakuri/time-tracker/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// RequestIDKey はリクエスト ID を gin.Context に格納するキーです。
const RequestIDKey = "request_id"

// Identified は id を持つリソース形状です。
type Identified interface {
	ResourceID() int64
}

// ResourceService は ResourceHandler が呼び出すユースケースです。
type ResourceService[R Identified] interface {
	Name() string
	List(ctx context.Context) ([]R, error)
	Get(ctx context.Context, id int64) (R, error)
	Create(ctx context.Context, r R) (R, error)
	Replace(ctx context.Context, id int64, r R) error
	Patch(ctx context.Context, id int64, ops []patch.Operation) error
	Delete(ctx context.Context, id int64) error
}

// ResourceHandler は 1 リソース種別の REST エンドポイントを提供します。
type ResourceHandler[R Identified] struct {
	svc      ResourceService[R]
	logger   *slog.Logger
	basePath string
}

// NewResourceHandler は ResourceHandler を生成します。
func NewResourceHandler[R Identified](svc ResourceService[R], logger *slog.Logger) *ResourceHandler[R] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ResourceHandler[R]{
		svc:    svc,
		logger: logger.With(slog.String("resource", svc.Name())),
	}
}

// Mount は api 配下の /{name} にルートを登録します。
func (h *ResourceHandler[R]) Mount(api *gin.RouterGroup) {
	g := api.Group("/" + h.svc.Name())
	h.basePath = g.BasePath()

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Replace)
	g.PATCH("/:id", h.Patch)
	g.DELETE("/:id", h.Delete)
}

// List は GET /api/{name} を処理します。
func (h *ResourceHandler[R]) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	h.observe("list", err)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get は GET /api/{name}/{id} を処理します。
func (h *ResourceHandler[R]) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.svc.Get(c.Request.Context(), id)
	h.observe("get", err)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create は POST /api/{name} を処理します。
func (h *ResourceHandler[R]) Create(c *gin.Context) {
	var body R
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badBody(c, "create", err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), body)
	h.observe("create", err)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Location", h.basePath+"/"+strconv.FormatInt(created.ResourceID(), 10))
	c.JSON(http.StatusCreated, created)
}

// Replace は PUT /api/{name}/{id} を処理します。
func (h *ResourceHandler[R]) Replace(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var body R
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badBody(c, "replace", err)
		return
	}

	err := h.svc.Replace(c.Request.Context(), id, body)
	h.observe("replace", err)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Patch は PATCH /api/{name}/{id} を処理します。ボディは JSON Patch の操作配列です。
func (h *ResourceHandler[R]) Patch(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var ops []patch.Operation
	if err := c.ShouldBindJSON(&ops); err != nil {
		h.badBody(c, "patch", err)
		return
	}

	err := h.svc.Patch(c.Request.Context(), id, ops)
	h.observe("patch", err)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete は DELETE /api/{name}/{id} を処理します。
func (h *ResourceHandler[R]) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	err := h.svc.Delete(c.Request.Context(), id)
	h.observe("delete", err)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[R]) pathID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeProblem(c, http.StatusBadRequest, "id "+strconv.Quote(raw)+" is not an integer")
		return 0, false
	}
	return id, true
}

func (h *ResourceHandler[R]) badBody(c *gin.Context, operation string, err error) {
	h.observe(operation, resource.ErrInvalidRequest)
	writeProblem(c, http.StatusBadRequest, "request body is not valid: "+err.Error())
}

func (h *ResourceHandler[R]) observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = resource.KindOf(err).String()
	}
	metrics.ResourceOperationsTotal.WithLabelValues(h.svc.Name(), operation, outcome).Inc()
}
