package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(sessionHandler *handlers.SessionHandler, catalogHandler *handlers.CatalogHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	sessions := r.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Start)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.POST("/:id/items", sessionHandler.AddItem)
		sessions.DELETE("/:id/items/:index", sessionHandler.RemoveItem)
		sessions.POST("/:id/finalize", sessionHandler.Finalize)
		sessions.POST("/:id/reset", sessionHandler.Reset)
		sessions.DELETE("/:id", sessionHandler.Abandon)
	}

	ingredients := r.Group("/ingredients")
	{
		ingredients.POST("", catalogHandler.RegisterIngredient)
		ingredients.GET("/low-stock", catalogHandler.LowStock)
		ingredients.GET("/:id", catalogHandler.GetIngredient)
		ingredients.POST("/:id/receipts", catalogHandler.ReceiveStock)
	}

	dishes := r.Group("/dishes")
	{
		dishes.POST("", catalogHandler.RegisterDish)
		dishes.GET("/:id", catalogHandler.GetDish)
	}

	r.GET("/reports/production", catalogHandler.ProductionSummary)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
