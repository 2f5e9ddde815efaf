package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"expiry-scanner-api/config"
	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/application/services"
	"expiry-scanner-api/internal/application/session"
	"expiry-scanner-api/internal/infrastructure/blob"
	"expiry-scanner-api/internal/infrastructure/db/postgres"
	"expiry-scanner-api/internal/infrastructure/db/postgres/analysis"
	"expiry-scanner-api/internal/infrastructure/db/postgres/user"
	"expiry-scanner-api/internal/infrastructure/jwt"
	"expiry-scanner-api/internal/infrastructure/metrics"
	"expiry-scanner-api/internal/infrastructure/mq"
	"expiry-scanner-api/internal/infrastructure/s3"
	"expiry-scanner-api/internal/infrastructure/vision"
	"expiry-scanner-api/internal/interface/api/rest"
	"expiry-scanner-api/internal/interface/api/rest/middleware"
	"expiry-scanner-api/pkg/rmqconsumer"
)

const (
	shutdownTimeout = 5 * time.Second
	healthTimeout   = 2 * time.Second
	fetchTimeout    = 30 * time.Second
	identityBuffer  = 8
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	s3         ports.S3Client
	vision     ports.VisionModel
	blob       *blob.Client
	hub        *session.Hub
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	events     ports.EventPublisher
	mq         ports.RabbitMQ    // nil without a broker
	mqConsumer ports.RMQConsumer // nil without a broker
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config; the environment alone is enough
	if err = godotenv.Load(".env"); err != nil {
		logger.Info(".env not loaded, using process environment", zap.Error(err))
	}
	cfg := config.Load()

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(rest.MethodNotAllowed)
	r.NoRoute(rest.NotFound)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("DB config: %w", err)
	}
	migrateDsn, _ := cfg.MigrateDSN()
	if err = postgres.Migrate(logger, migrateDsn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// s3; missing bucket settings surface per request as configuration errors
	s3Client, err := s3.New(ctx, logger, cfg.S3)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("s3: %w", err)
	}

	app := &App{
		logger:   logger,
		cfg:      cfg,
		db:       dbPool,
		s3:       s3Client,
		vision:   vision.New(logger, cfg.AI),
		blob:     blob.New(&http.Client{Timeout: fetchTimeout}),
		hub:      session.NewHub(identityBuffer),
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
		events:   mq.Discard{},
	}

	// rabbitMQ is optional
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Warn("RabbitMQ not configured, events are discarded", zap.Error(err))
		return app, nil
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		app.Close()
		return nil, fmt.Errorf("connect to rabbitMQ: %w", err)
	}
	if err = rbMQ.Init(); err != nil {
		_ = rbMQ.GetConn().Close()
		app.Close()
		return nil, fmt.Errorf("init rabbitMQ: %w", err)
	}
	app.mq, app.events = rbMQ, rbMQ

	// rmqConsumer shares the publisher connection
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Reuse(); err != nil {
		app.Close()
		return nil, fmt.Errorf("rabbitMQ consumer channel: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		app.Close()
		return nil, fmt.Errorf("init rabbitMQ consumer: %w", err)
	}
	app.mqConsumer = rmqConsumer

	return app, nil
}

func (a *App) Close() {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}
	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	// open identity streams would hold Shutdown until the deadline
	a.hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	historyRepo := analysis.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(a.logger, jwtService, userRepo, a.hub, a.events, a.mCounter)
	userService := services.NewUserService(userRepo, historyRepo)
	pipelineService := services.NewPipelineService(
		a.logger,
		services.NewUploadService(a.s3, a.cfg.S3.KeyPrefix),
		services.NewAnalysisService(a.blob, a.vision),
		services.NewReconcileService(a.logger, userRepo, historyRepo, a.events, a.mCounter, a.cfg.Analysis.ProductName),
		a.mCounter,
	)

	// controllers
	rest.NewPipelineController(a.router, a.logger, pipelineService)
	rest.NewAuthController(a.router, a.logger, authService)
	rest.NewUserController(a.router, userService, a.logger)

	// ops
	a.router.GET(rest.RouteHealth, a.health)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Warn("health check: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *App) Logger() *zap.Logger { return a.logger }
