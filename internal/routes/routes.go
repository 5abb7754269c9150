package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wavemedia/internal/handlers"
	"wavemedia/internal/middleware"
	"wavemedia/internal/models"
	"wavemedia/internal/repositories"
	"wavemedia/internal/services"
)

// Handlers bundles everything the route table wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	News      *handlers.NewsHandler
	Podcasts  *handlers.PodcastHandler
	Episodes  *handlers.ResourceHandler[models.Episode]
	Stations  *handlers.StationHandler
	Schedules *handlers.ResourceHandler[models.ScheduleEntry]
	Products  *handlers.ResourceHandler[models.Product]
	Orders    *handlers.OrderHandler
	Payments  *handlers.ResourceHandler[models.Payment]
	Media     *handlers.MediaHandler
	Admin     *handlers.AdminHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, tokens services.TokenService, users repositories.UserRepository) *gin.Engine {
	authed := middleware.AuthRequired(tokens)
	staff := middleware.RequireStaff(users)
	admin := middleware.RequireAdmin(users)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// ---- auth, public
	auth := api.Group("/auth")
	{
		auth.POST("/register-user", h.Auth.RegisterUser)
		auth.POST("/register-manager", h.Auth.RegisterManager)
		auth.POST("/register-admin", h.Auth.RegisterAdmin)
		auth.GET("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/resend-verification", h.Auth.ResendVerification)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh-token", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	// ---- auth, bearer
	authPriv := api.Group("/auth", authed)
	{
		authPriv.POST("/logout", h.Auth.Logout)
		authPriv.GET("/profile", h.Auth.GetProfile)
		authPriv.PUT("/profile", h.Auth.UpdateProfile)
		authPriv.DELETE("/deactivate", h.Auth.Deactivate)
		authPriv.POST("/invite-manager", admin, h.Auth.InviteManager)
		authPriv.PUT("/promote/:userId", admin, h.Auth.Promote)
	}

	// ---- content: public reads, staff writes
	news := api.Group("/news")
	{
		news.GET("", h.News.List)
		news.GET("/:id", h.News.GetByID)
		news.POST("", authed, staff, h.News.Create)
		news.PUT("/:id", authed, staff, h.News.Update)
		news.DELETE("/:id", authed, staff, h.News.Delete)
		news.POST("/:id/publish", authed, staff, h.News.Publish)
	}

	podcasts := api.Group("/podcasts")
	{
		podcasts.GET("", h.Podcasts.List)
		podcasts.GET("/:id", h.Podcasts.GetByID)
		podcasts.GET("/:id/episodes", h.Podcasts.ListEpisodes)
		podcasts.POST("", authed, staff, h.Podcasts.Create)
		podcasts.PUT("/:id", authed, staff, h.Podcasts.Update)
		podcasts.DELETE("/:id", authed, staff, h.Podcasts.Delete)
	}

	episodes := api.Group("/episodes")
	{
		episodes.GET("", h.Episodes.List)
		episodes.GET("/:id", h.Episodes.GetByID)
		episodes.POST("", authed, staff, h.Episodes.Create)
		episodes.PUT("/:id", authed, staff, h.Episodes.Update)
		episodes.DELETE("/:id", authed, staff, h.Episodes.Delete)
	}

	stations := api.Group("/stations")
	{
		stations.GET("", h.Stations.List)
		stations.GET("/:id", h.Stations.GetByID)
		stations.GET("/:id/schedule", h.Stations.Schedule)
		stations.POST("", authed, staff, h.Stations.Create)
		stations.PUT("/:id", authed, staff, h.Stations.Update)
		stations.DELETE("/:id", authed, staff, h.Stations.Delete)
	}

	schedules := api.Group("/schedules")
	{
		schedules.GET("", h.Schedules.List)
		schedules.GET("/:id", h.Schedules.GetByID)
		schedules.POST("", authed, staff, h.Schedules.Create)
		schedules.PUT("/:id", authed, staff, h.Schedules.Update)
		schedules.DELETE("/:id", authed, staff, h.Schedules.Delete)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.GET("/:id", h.Products.GetByID)
		products.POST("", authed, staff, h.Products.Create)
		products.PUT("/:id", authed, staff, h.Products.Update)
		products.DELETE("/:id", authed, staff, h.Products.Delete)
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", h.Orders.Create)
		orders.GET("", h.Orders.List)
		orders.GET("/:id", h.Orders.GetByID)
		orders.GET("/:id/receipt", h.Orders.Receipt)
		orders.PUT("/:id", staff, h.Orders.Update)
		orders.DELETE("/:id", staff, h.Orders.Delete)
	}

	payments := api.Group("/payments", authed, staff)
	{
		payments.GET("", h.Payments.List)
		payments.GET("/:id", h.Payments.GetByID)
		payments.POST("", h.Payments.Create)
		payments.PUT("/:id", h.Payments.Update)
		payments.DELETE("/:id", h.Payments.Delete)
	}

	api.POST("/media/upload", authed, staff, h.Media.Upload)
	api.GET("/admin/stats", authed, admin, h.Admin.Stats)

	return r
}
