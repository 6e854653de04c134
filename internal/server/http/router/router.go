package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mealflow/mealflow/internal/notify"
	"github.com/mealflow/mealflow/internal/server/http/handlers"
	"github.com/mealflow/mealflow/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderingFacade, hub *notify.Hub, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	merchantHandler := handlers.NewMerchantHandler(facade)

	api := engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.POST("/orders", orderHandler.Submit)
	userAuth.PUT("/orders/payment", orderHandler.Pay)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/:id", orderHandler.Detail)
	userAuth.PUT("/orders/:id/cancel", orderHandler.Cancel)
	userAuth.POST("/orders/:id/repetition", orderHandler.Repeat)
	userAuth.POST("/orders/:id/reminder", orderHandler.Remind)
	userAuth.POST("/orders/reminder", orderHandler.RemindByNumber)

	merchant := api.Group("/merchant")
	merchant.POST("/login", authHandler.Login)

	merchantAuth := merchant.Group("")
	merchantAuth.Use(middleware.AuthRequired(facade), middleware.MerchantRequired())
	merchantAuth.GET("/orders/:id", merchantHandler.Detail)
	merchantAuth.PUT("/orders/:id/confirm", merchantHandler.Confirm)
	merchantAuth.PUT("/orders/rejection", merchantHandler.Reject)
	merchantAuth.PUT("/orders/cancel", merchantHandler.Cancel)
	merchantAuth.PUT("/orders/:id/delivery", merchantHandler.Deliver)
	merchantAuth.PUT("/orders/:id/complete", merchantHandler.Complete)
	merchantAuth.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	return engine
}
