package server

import (
	"context"
	"fmt"
	"time"

	"github.com/cyphera/custody-vault/internal/auth"
	awsclient "github.com/cyphera/custody-vault/internal/client/aws"
	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/db"
	"github.com/cyphera/custody-vault/internal/handlers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/ledger"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/middleware"
	"github.com/cyphera/custody-vault/internal/services"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Server owns the vault's runtime, publishers and HTTP router.
type Server struct {
	cfg     Config
	router  *gin.Engine
	limiter *middleware.RateLimiter
	pool    *pgxpool.Pool

	runtime    interfaces.LedgerRuntime
	seeder     interfaces.LedgerSeeder
	events     interfaces.EventReader
	publishers []interfaces.EventPublisher
	checks     map[string]handlers.HealthCheck

	healthHandler     *handlers.HealthHandler
	delegationHandler *handlers.DelegationHandler
	nativeHandler     *handlers.NativeHandler
	transferHandler   *handlers.TransferHandler
	eventHandler      *handlers.EventHandler
	devHandler        *handlers.DevHandler
}

// New builds the ledger backend, event publishers, services and routes for cfg.
func New(ctx context.Context, cfg Config) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		checks: make(map[string]handlers.HealthCheck),
	}

	if err := s.initializeLedger(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.initializePublishers(ctx); err != nil {
		s.Close()
		return nil, err
	}
	s.InitializeHandlers()

	s.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	s.router = gin.New()
	s.InitializeRoutes(s.router)

	logger.OrNop(nil).Info("Vault server initialized",
		zap.String("stage", cfg.Stage),
		zap.String("ledger_backend", cfg.LedgerBackend),
		zap.String("program_id", cfg.Vault.ProgramID.String()),
		zap.Uint64("max_transfer", cfg.Vault.MaxTransfer),
		zap.Bool("admin_configured", !cfg.Vault.Admin.IsZero()),
		zap.Int("publishers", len(s.publishers)),
	)
	return s, nil
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close releases the database pool and background goroutines.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Server) initializeLedger(ctx context.Context) error {
	programID := s.cfg.Vault.ProgramID

	switch s.cfg.LedgerBackend {
	case constants.PostgresBackend:
		pool, err := newPool(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		s.pool = pool

		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		pgLedger := db.NewPostgresLedger(pool, programID, db.WithLogger(logger.OrNop(nil)))
		store := db.NewEventStore(pool)
		s.runtime = pgLedger
		s.seeder = pgLedger
		s.events = store
		s.publishers = append(s.publishers, store)
		s.checks["postgres"] = pool.Ping

	default:
		memLedger := ledger.NewMemoryLedger(programID, ledger.WithLogger(logger.OrNop(nil)))
		eventLog := services.NewEventLog(s.cfg.EventLogSize)
		s.runtime = memLedger
		s.seeder = memorySeeder{ledger: memLedger}
		s.events = eventLog
		s.publishers = append(s.publishers, eventLog)
	}
	return nil
}

func newPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database connection string: %w", err)
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return pool, nil
}

func (s *Server) initializePublishers(ctx context.Context) error {
	if s.cfg.EventsQueueURL == "" {
		return nil
	}
	sqsPublisher, err := awsclient.NewSQSEventPublisher(ctx, s.cfg.EventsQueueURL)
	if err != nil {
		return fmt.Errorf("failed to create SQS event publisher: %w", err)
	}
	s.publishers = append(s.publishers, sqsPublisher)
	return nil
}

// InitializeHandlers builds the services over the selected runtime.
func (s *Server) InitializeHandlers() {
	publisher := services.FanoutPublisher(s.publishers)

	s.healthHandler = handlers.NewHealthHandler(s.checks)
	s.delegationHandler = handlers.NewDelegationHandler(services.NewDelegationService(s.runtime, s.cfg.Vault, publisher))
	s.nativeHandler = handlers.NewNativeHandler(services.NewNativeCustodyService(s.runtime, s.cfg.Vault, publisher))
	s.transferHandler = handlers.NewTransferHandler(services.NewTransferService(s.runtime, s.cfg.Vault, publisher))
	s.eventHandler = handlers.NewEventHandler(s.events)
	s.devHandler = handlers.NewDevHandler(s.seeder)
}

// InitializeRoutes registers middleware and the /api/v1 routes on router.
func (s *Server) InitializeRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(configureCORS(s.cfg.CORS))
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware())
	router.Use(middleware.EnhancedLoggingMiddleware(s.cfg.Stage == constants.LocalEnvironment))

	router.GET("/health", s.healthHandler.Health)

	v1 := router.Group("/api/v1")
	v1.Use(auth.SignatureMiddleware(s.cfg.MaxBodyBytes))
	v1.Use(s.limiter.Middleware())
	{
		delegations := v1.Group("/delegations")
		{
			delegations.POST("", s.delegationHandler.SetupDelegation)
			delegations.POST("/revoke", s.delegationHandler.RevokeDelegation)
			delegations.POST("/suspend", s.delegationHandler.SuspendDelegation)
			delegations.GET("/:owner/:mint", s.delegationHandler.GetDelegation)
		}

		native := v1.Group("/native")
		{
			native.POST("/commit", s.nativeHandler.CommitNative)
			native.POST("/reclaim", s.nativeHandler.ReclaimNative)
			native.POST("/close", s.nativeHandler.CloseNativeProfile)
			native.GET("/:owner", s.nativeHandler.GetNativeProfile)
		}

		v1.POST("/transfers", s.transferHandler.ExecuteTransfer)
		v1.POST("/transfers/max", s.transferHandler.ExecuteMaxTransfer)
		v1.POST("/liquidity/sync", s.transferHandler.SyncLiquidity)

		v1.GET("/events", s.eventHandler.ListEvents)

		if s.cfg.IsDevelopment() {
			dev := v1.Group("/dev")
			dev.POST("/airdrop", s.devHandler.Airdrop)
			dev.POST("/token-accounts", s.devHandler.CreateTokenAccount)
		}
	}
}

func configureCORS(c CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = c.AllowedOrigins
	corsConfig.AllowMethods = c.AllowedMethods
	corsConfig.AllowHeaders = c.AllowedHeaders
	corsConfig.ExposeHeaders = c.ExposedHeaders
	corsConfig.AllowCredentials = c.AllowCredentials
	return cors.New(corsConfig)
}

// memorySeeder adapts the in-memory ledger's seeding helpers to LedgerSeeder.
type memorySeeder struct {
	ledger *ledger.MemoryLedger
}

func (m memorySeeder) Airdrop(_ context.Context, key solana.PublicKey, lamports uint64) error {
	return m.ledger.Airdrop(key, lamports)
}

func (m memorySeeder) CreateTokenAccount(_ context.Context, key, mint, owner solana.PublicKey, amount uint64) error {
	return m.ledger.CreateTokenAccount(key, mint, owner, amount)
}
