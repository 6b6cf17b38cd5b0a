package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"student_mgmt/internal/config"
	"student_mgmt/internal/handler"
	"student_mgmt/internal/logging"
	"student_mgmt/internal/metrics"
	"student_mgmt/internal/middleware"
	"student_mgmt/internal/notify"
	"student_mgmt/internal/observability"
	"student_mgmt/internal/repository"
	"student_mgmt/internal/service"
	"student_mgmt/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Base

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	// --- Migrations ---
	if err := config.Migrate(ctx, dbPool, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpHours)

	var mailer notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.SMTP.Host != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	notifier := notify.NewAsync(mailer, logger)
	defer notifier.Wait()

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	courseRepo := repository.NewCourseRepository(dbPool)
	enrollmentRepo := repository.NewEnrollmentRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, notifier, logger)
	userService := service.NewUserService(userRepo)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo)
	dashboardService := service.NewDashboardService(userRepo, courseRepo, enrollmentRepo)

	if cfg.Staff.Enabled() {
		if _, err := authService.BootstrapStaff(ctx, cfg.Staff.Username, cfg.Staff.Email, cfg.Staff.Password); err != nil {
			logger.Fatal("failed to bootstrap staff account", zap.Error(err))
		}
	}

	// --- Initialize Handlers ---
	secureCookie := cfg.Env == "prod"
	authHandler := handler.NewAuthHandler(authService, jwtUtil.TTL(), secureCookie, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	studentHandler := handler.NewStudentHandler(userService, courseService, enrollmentService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	// --- Setup Gin Router ---
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Observe(logger))

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	staffMW := middleware.StaffMiddleware()
	studentMW := middleware.StudentMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup)
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW, staffMW)
	courseHandler.RegisterCourseRoutes(apiGroup, jwtAuthMW, staffMW)
	enrollmentHandler.RegisterEnrollmentRoutes(apiGroup, jwtAuthMW, staffMW)
	studentHandler.RegisterStudentRoutes(apiGroup, jwtAuthMW, studentMW)
	dashboardHandler.RegisterDashboardRoutes(apiGroup, jwtAuthMW, staffMW, studentMW)

	router.GET("/health", handler.Health(dbPool))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
