package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/friendoria/friendoria/internal/config"
	"github.com/friendoria/friendoria/internal/handlers"
	"github.com/friendoria/friendoria/internal/middleware"
	"github.com/friendoria/friendoria/internal/storage"
)

func NewRouter(cfg *config.Config, store storage.BlobStore) *gin.Engine {
	handlers.Configure(cfg, store)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Page navigation rules: sign-in redirects, auth-page bounce,
	// admin-area allow-list. API routes answer 401/403 instead.
	r.Use(middleware.AccessGuard(cfg.Auth.AdminEmails))

	if cfg.Storage.Driver == config.StorageDriverLocal {
		r.Static("/uploads", cfg.Storage.UploadsDir)
	}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:event_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateUser)
		}

		events := api.Group("/events", middleware.AuthMiddleware())
		{
			events.POST("", handlers.CreateEvent)
			events.GET("", handlers.ListEvents)
			events.GET("/:event_id", handlers.GetEvent)

			events.POST("/:event_id/media", handlers.UploadMedia)
			events.POST("/:event_id/media/:media_id/validate", handlers.ValidateMedia)
			events.DELETE("/:event_id/media/:media_id", handlers.DeleteMedia)

			events.POST("/:event_id/contributions", handlers.CreateContribution)
			events.POST("/:event_id/contributions/:contribution_id/validate", handlers.ValidateContribution)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminRequired(cfg.Auth.AdminEmails))
		{
			admin.GET("/stats", handlers.GetAdminStats)
			admin.GET("/users", handlers.ListUsersAdmin)
			admin.GET("/events", handlers.ListEventsAdmin)
			admin.POST("/reset-events", handlers.ResetEvents)
		}
	}

	return r
}
