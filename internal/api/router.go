package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/facetag/internal/api/handlers"
	"github.com/your-org/facetag/internal/auth"
	"github.com/your-org/facetag/internal/bot"
	"github.com/your-org/facetag/internal/queue"
	"github.com/your-org/facetag/internal/storage"
)

type RouterConfig struct {
	WebhookSecret string
	DB            *storage.PhotoStore
	MinIO         *storage.MinIOStore
	Producer      *queue.Producer
	Bot           *bot.Bot
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Telegram webhook
	webhookH := handlers.NewWebhookHandler(cfg.Bot)
	r.POST("/telegram/webhook", auth.WebhookSecretMiddleware(cfg.WebhookSecret), webhookH.Handle)

	// Photo gateway: the URL shapes the bot hands to Telegram.
	gatewayH := handlers.NewGatewayHandler(cfg.MinIO)
	r.GET("/", gatewayH.Face)
	r.GET("/original/", gatewayH.Original)

	// Source photo ingress; publishing the notification starts detection.
	uploadH := handlers.NewUploadHandler(cfg.MinIO, cfg.Producer)
	r.POST("/upload", uploadH.Upload)

	return r
}
