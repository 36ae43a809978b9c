package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"storefront-admin/config"
	"storefront-admin/consumers"
	"storefront-admin/controllers"
	"storefront-admin/database"
	"storefront-admin/middlewares"
	"storefront-admin/rabbitmq"
	"storefront-admin/repository"
	"storefront-admin/session"
)

type readinessCheck func(ctx context.Context) error

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()
	logger := newLogger(cfg)
	logger.Info("Starting storefront admin API...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]readinessCheck{}

	repo, closeRepo, err := openRepository(ctx, cfg, checks)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open repository")
	}
	defer closeRepo()
	logger.WithField("driver", cfg.RepositoryDriver).Info("Repository ready")

	store, err := openSessionStore(ctx, cfg, checks)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open session store")
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure admin account")
	}
	sessions, err := session.NewManager(verifier, store, cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create session manager")
	}

	// The broker is optional; without it orders are stored but no events
	// are sent.
	var publisher controllers.EventPublisher
	if cfg.RabbitMQURL != "" {
		rmq, err := rabbitmq.NewRabbitMQ(cfg, logger)
		if err != nil {
			logger.WithError(err).Fatal("RabbitMQ initialization failed")
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			logger.WithError(err).Fatal("Failed to setup RabbitMQ queues")
		}
		if err := consumers.NewOrderConsumer(repo, logger).Start(ctx, rmq.Channel, cfg); err != nil {
			logger.WithError(err).Fatal("Failed to start order consumer")
		}
		publisher = rmq
		checks["rabbitmq"] = func(context.Context) error {
			if rmq.Conn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middlewares.RecoveryMiddleware(logger))
	router.Use(middlewares.LoggerMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middlewares.PrometheusMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "storefront-admin"})
	})
	router.GET("/ready", func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		for name, check := range checks {
			if err := check(checkCtx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "dependency": name, "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	controllers.RegisterRoutes(router, controllers.RouterDeps{
		Repo:              repo,
		Sessions:          sessions,
		Publisher:         publisher,
		PaymentCheckDelay: cfg.PaymentCheckDelay,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithField("address", srv.Addr).Info("Storefront admin API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func openRepository(ctx context.Context, cfg *config.Config, checks map[string]readinessCheck) (repository.Repository, func(), error) {
	switch cfg.RepositoryDriver {
	case repository.DriverMemory:
		if cfg.SeedFile == "" {
			return repository.NewMemoryStore(), func() {}, nil
		}
		snap, err := repository.LoadSnapshot(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMemoryStoreFromSnapshot(snap), func() {}, nil

	case repository.DriverMySQL:
		db, err := database.InitDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		checks["mysql"] = db.PingContext
		return repository.NewMySQLStore(db), func() { db.Close() }, nil

	case repository.DriverRemote:
		if cfg.RemoteAPIURL == "" {
			return nil, nil, errors.New("REMOTE_API_URL is required for the remote driver")
		}
		return repository.NewRemoteStore(cfg.RemoteAPIURL, cfg.RemoteAPIToken, cfg.RemoteAPITimeout), func() {}, nil
	}
	return nil, nil, errors.New("unknown repository driver " + cfg.RepositoryDriver)
}

func openSessionStore(ctx context.Context, cfg *config.Config, checks map[string]readinessCheck) (session.Store, error) {
	if cfg.SessionStore != "redis" {
		return session.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return session.NewRedisStore(client), nil
}

func newVerifier(cfg *config.Config) (session.Verifier, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" && cfg.AdminPassword != "" {
		var err error
		if hash, err = session.HashPassword(cfg.AdminPassword); err != nil {
			return nil, err
		}
	}
	return session.NewStaticVerifier(cfg.AdminEmail, cfg.AdminName, hash)
}
