package router

import (
	"log/slog"
	"net/http"

	"github.com/chiragthakuri/time-tracker/internal/adapters/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

// APIPrefix はリソースを公開するパスの接頭辞です。
const APIPrefix = "/api"

// Mounter は API グループ配下へルートを登録します。
type Mounter interface {
	Mount(api *gin.RouterGroup)
}

// Options はルーター構築時の依存関係です。
type Options struct {
	Logger             *slog.Logger
	Health             *handler.HealthHandler
	Resources          []Mounter
	CORSAllowedOrigins []string
	// AccessLog が false の場合はアクセスログを出力しません。
	AccessLog bool
}

// New は HTTP ハンドラを構築します。
func New(opts Options) http.Handler {
	engine := gin.New()
	// /api/Employee のような大文字小文字違いを正規のパスへリダイレクトする
	engine.RedirectFixedPath = true
	engine.HandleMethodNotAllowed = true

	engine.Use(gin.Recovery(), requestID(), observeRequests())

	if opts.Health != nil {
		opts.Health.Mount(engine)
	}
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group(APIPrefix)
	for _, r := range opts.Resources {
		r.Mount(api)
	}

	var h http.Handler = engine
	if opts.AccessLog && opts.Logger != nil {
		h = sloghttp.NewWithConfig(opts.Logger, sloghttp.Config{
			DefaultLevel:     slog.LevelInfo,
			ClientErrorLevel: slog.LevelWarn,
			ServerErrorLevel: slog.LevelError,
		})(h)
	}

	if len(opts.CORSAllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
			},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
			ExposedHeaders: []string{"Location", RequestIDHeader},
		}).Handler(h)
	}

	return h
}
