package http

import (
	"net/http"
	"time"

	"cultural-quiz-service/internal/platform/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CatalogHandler *CatalogHandler
	ChatHandler    *ChatHandler
	WSHandler      *WSHandler
	Log            *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Log != nil {
		r.Use(requestLogger(cfg.Log))
	}
	r.Use(corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	if cfg.CatalogHandler != nil {
		api.GET("/countries", cfg.CatalogHandler.Countries)
		api.GET("/guide/:country", cfg.CatalogHandler.Guide)
		api.GET("/quiz/:country", cfg.CatalogHandler.Quiz)
		api.GET("/sessions/:id", cfg.CatalogHandler.Session)
	}
	if cfg.ChatHandler != nil {
		api.POST("/chat", cfg.ChatHandler.Chat)
	}
	if cfg.WSHandler != nil {
		r.GET("/ws", gin.WrapF(cfg.WSHandler.ServeWS))
	}
	return r
}

// The browser front-end is served from a different origin during development.
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Requested-With"},
		MaxAge:          12 * time.Hour,
	})
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
