package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/config"
	"wavemedia/internal/handlers"
	"wavemedia/internal/middleware"
	"wavemedia/internal/models"
	"wavemedia/internal/pdf"
	"wavemedia/internal/repositories"
	"wavemedia/internal/routes"
	"wavemedia/internal/services"

	_ "wavemedia/docs"
)

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	// === DB ===
	db, err := sqlx.Connect("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("db close: %v", err)
		}
	}()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	newsRepo := repositories.NewNewsRepository(db)
	podcastRepo := repositories.NewPodcastRepository(db)
	episodeRepo := repositories.NewEpisodeRepository(db)
	stationRepo := repositories.NewStationRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// === Services ===
	tokenService := services.NewTokenService(
		cfg.Auth.JWTSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL(),
		cfg.Auth.RefreshTTL(),
	)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.FrontendURL,
	)
	authService := services.NewAuthService(userRepo, tokenService, emailService, cfg.Auth.AdminSecret)

	mediaService, err := services.NewMediaService(cfg.Media)
	if err != nil {
		log.Warnf("media storage disabled: %v", err)
	}
	notifier := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.OpsChatID)

	receiptGen := pdf.NewReceiptGenerator(cfg.Files.RootDir)

	// === Handlers ===
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.Auth.RefreshTTL(), cfg.IsProduction()),
		News:      handlers.NewNewsHandler(newsRepo, notifier),
		Podcasts:  handlers.NewPodcastHandler(podcastRepo, episodeRepo),
		Episodes:  handlers.NewResourceHandler[models.Episode]("episode", episodeRepo),
		Stations:  handlers.NewStationHandler(stationRepo, scheduleRepo),
		Schedules: handlers.NewResourceHandler[models.ScheduleEntry]("schedule entry", scheduleRepo),
		Products:  handlers.NewResourceHandler[models.Product]("product", productRepo),
		Orders:    handlers.NewOrderHandler(orderRepo, productRepo, userRepo, receiptGen, notifier),
		Payments:  handlers.NewResourceHandler[models.Payment]("payment", paymentRepo),
		Media:     handlers.NewMediaHandler(mediaService),
		Admin:     handlers.NewAdminHandler(userRepo, newsRepo, orderRepo),
	}

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.Metrics())

	routes.SetupRoutes(router, h, tokenService, userRepo)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	go func() {
		log.Infof("listening on %s", listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
