package main

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/config"
	"github.com/mcc-event-hub/web-gateway/internal/handlers"
	"github.com/mcc-event-hub/web-gateway/internal/session"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	// Display timezone for datetime-local round trips
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Fatal("Invalid display timezone", zap.String("tz", cfg.TimeZone), zap.Error(err))
	}

	// Session store
	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("Error parsing Redis URL", zap.Error(err))
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		logger.Info("Connected to Redis", zap.String("url", cfg.Redis.URL))

		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
	case "memory":
		store = session.NewMemoryStore()
		logger.Warn("Using in-memory session store; sessions do not survive restarts")
	default:
		logger.Fatal("Unknown session backend", zap.String("backend", cfg.Session.Backend))
	}

	codec := session.NewCookieCodec(cfg.Session.CookieSecret, cfg.Session.TTL)

	// Initialize hub API client
	hubClient := clients.NewHubClient(cfg.HubAPI.URL, logger)
	logger.Info("Using hub API", zap.String("url", cfg.HubAPI.URL))

	// Set Gin mode
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.SetFuncMap(template.FuncMap{
		"fmtDate": func(t time.Time) string { return t.In(loc).Format("Jan 2, 2006") },
		"fmtTime": func(t time.Time) string { return t.In(loc).Format("3:04 PM") },
	})
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "./web/static")

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(hubClient, logger)
	authHandler := handlers.NewAuthHandler(hubClient, store, codec, logger)
	eventHandler := handlers.NewEventHandler(hubClient, store, loc, logger)
	adminHandler := handlers.NewAdminHandler(hubClient, store, logger)
	agendaHandler := handlers.NewAgendaHandler(hubClient, logger)
	icalHandler := handlers.NewICalHandler(hubClient, logger)

	// Public routes
	r.GET("/", pageHandler.Index)
	r.GET("/events/:id", pageHandler.EventDetail)
	r.POST("/events", eventHandler.CreateEvent)
	r.GET("/events.ics", icalHandler.Feed)
	r.GET("/agenda", pageHandler.AgendaPage)
	r.POST("/api/agenda", agendaHandler.Chat)
	r.GET("/api/calendar-feed", eventHandler.CalendarFeed)
	r.GET("/health", pageHandler.Health)

	// Admin routes
	r.GET("/admin", authHandler.ShowLogin)
	r.POST("/admin/login", authHandler.Login)
	r.POST("/admin/logout", authHandler.Logout)

	admin := r.Group("/admin", handlers.RequireSession(store, codec))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/events/:id", eventHandler.ShowEdit)
		admin.POST("/events/:id", eventHandler.UpdateEvent)
		admin.POST("/events/:id/delete", eventHandler.DeleteEvent)
		admin.POST("/admins", adminHandler.AddAdmin)
		admin.POST("/admins/delete", adminHandler.RemoveAdmin)
	}

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting event hub web gateway", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "info":
		logLevel = zap.InfoLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
