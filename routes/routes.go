package routes

import (
	"time"

	"finzo/handlers"
	"finzo/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the notification log and audit endpoints.
func RegisterNotificationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	group := api.Group("/notifications")
	{
		group.GET("", hb.ListNotificationsHandler)
		group.POST("", hb.CreateNotificationHandler)
		group.PATCH("", hb.SetNotificationReadHandler)
		group.DELETE("", hb.DeleteNotificationsHandler)

		group.POST("/read-all", hb.MarkAllReadHandler)
		group.GET("/unread-count", hb.UnreadCountHandler)
		group.GET("/:id/diff", hb.NotificationDiffHandler)
		group.POST("/:id/undo", hb.UndoNotificationHandler)
	}
}

// RegisterTransactionRoutes registers ledger endpoints.
func RegisterTransactionRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	group := api.Group("/transactions")
	{
		group.GET("", hb.ListTransactionsHandler)
		group.POST("", hb.CreateTransactionHandler)
		group.POST("/bulk-delete", hb.BulkDeleteTransactionsHandler)
		group.GET("/:id", hb.GetTransactionHandler)
		group.PATCH("/:id", hb.EditTransactionHandler)
		group.DELETE("/:id", hb.DeleteTransactionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(hb.JWTSecret))
	RegisterNotificationRoutes(api, hb)
	RegisterTransactionRoutes(api, hb)
}
