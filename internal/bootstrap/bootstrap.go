package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/controllers"
	"github.com/yigit/iams/internal/app/migrations"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/app/repositories/memory"
	pgstore "github.com/yigit/iams/internal/app/repositories/postgres"
	"github.com/yigit/iams/internal/app/routes"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/config"
	"github.com/yigit/iams/internal/db"
	"github.com/yigit/iams/internal/middleware"
	"github.com/yigit/iams/internal/pkg/audit"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
	"github.com/yigit/iams/internal/pkg/email"
	"github.com/yigit/iams/internal/pkg/logger"
	"github.com/yigit/iams/internal/pkg/metrics"
	"github.com/yigit/iams/internal/pkg/revocation"
	"github.com/yigit/iams/internal/pkg/validation"
	"github.com/yigit/iams/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store       repositories.Store
	Tokens      *jwtauth.TokenService
	Revocations revocation.Store
	Auditor     audit.Recorder
	Notifier    email.Notifier
	Services    *services.Services
	Controllers routes.Controllers
	Gate        *auth.Gate
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger

	// closers run in reverse order on Close
	closers []func(context.Context) error
}

// Close releases external clients, newest first
func (d *Dependencies) Close(ctx context.Context) error {
	var firstErr error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.closers = nil
	return firstErr
}

func (d *Dependencies) onClose(fn func(context.Context) error) {
	d.closers = append(d.closers, fn)
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	lgr := logger.With("bootstrap")
	lgr.Info().Str("logLevel", cfg.Logging.Level).Bool("pretty", cfg.Logging.Pretty).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store, applies migrations for postgres
// and creates the default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (repositories.Store, error) {
	var store repositories.Store

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		store = memory.New()

	default:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		if err := RunMigrations(ctx, database, cfg.Database.MigrationsDir, lgr); err != nil {
			database.Close()
			return nil, err
		}
		store = pgstore.NewStore(database)
	}

	if err := seed.CreateDefaultData(ctx, store.Repositories(), seedAdmin(cfg), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return store, nil
}

// RunMigrations applies every pending file under dir
func RunMigrations(ctx context.Context, database *db.PostgresDB, dir string, lgr zerolog.Logger) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	applied, err := migrations.NewMigrator(database.Pool()).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

func seedAdmin(cfg *config.Config) *seed.AdminConfig {
	if !cfg.Seed.Enabled {
		return nil
	}
	return &seed.AdminConfig{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		FullName: cfg.Seed.AdminName,
	}
}

// BuildDependencies initializes external clients, services, and controllers.
// Optional backends that cannot be reached fall back to in-process versions.
func BuildDependencies(ctx context.Context, cfg *config.Config, store repositories.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}
	deps.onClose(func(context.Context) error {
		store.Close()
		return nil
	})

	tokens, err := jwtauth.NewTokenService(jwtauth.TokenConfig{
		SecretKey: cfg.JWT.Secret,
		Expiry:    cfg.JWT.Expiry,
		Issuer:    cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure tokens: %w", err)
	}
	deps.Tokens = tokens

	deps.Revocations = revocation.NewMemoryStore()
	if cfg.Redis.Enabled {
		client, err := revocation.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, revocations kept in memory")
		} else {
			deps.Revocations = revocation.NewRedisStore(client)
			deps.onClose(func(context.Context) error { return client.Close() })
			lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Token revocations stored in Redis")
		}
	}

	deps.Auditor = audit.NewLogRecorder(logger.With("audit"), 0)
	if cfg.Mongo.Enabled {
		client, err := audit.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			lgr.Warn().Err(err).Msg("MongoDB unavailable, audit trail kept in memory")
		} else {
			deps.Auditor = audit.NewMongoRecorder(client, cfg.Mongo.Database, cfg.Mongo.Collection)
			deps.onClose(client.Disconnect)
			lgr.Info().Str("database", cfg.Mongo.Database).Msg("Audit trail stored in MongoDB")
		}
	}

	if cfg.Email.Enabled {
		deps.Notifier = email.NewSMTPNotifier(email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}, logger.With("email"))
	} else {
		deps.Notifier = email.NewLogNotifier(logger.With("email"))
	}

	signupRoles := make([]models.RoleName, 0, len(cfg.Auth.SignupRoles))
	for _, role := range cfg.Auth.SignupRoles {
		signupRoles = append(signupRoles, models.RoleName(role))
	}

	deps.Services = services.New(services.Dependencies{
		Store:           store,
		Tokens:          deps.Tokens,
		Revocations:     deps.Revocations,
		Auditor:         deps.Auditor,
		Notifier:        deps.Notifier,
		SignupRoles:     signupRoles,
		EnforceCapacity: cfg.Enrollment.EnforceCapacity,
	})

	deps.Gate = auth.NewGate(deps.Tokens, deps.Revocations, store.Repositories())

	svc := deps.Services
	deps.Controllers = routes.Controllers{
		Auth:        controllers.NewAuthController(svc.Auth),
		Catalog:     controllers.NewCatalogController(svc.Catalog),
		People:      controllers.NewPeopleController(svc.People),
		Enrollments: controllers.NewEnrollmentController(svc.Enrollments),
		Attendance:  controllers.NewAttendanceController(svc.Attendance),
		Exams:       controllers.NewExamController(svc.Exams),
		Admissions:  controllers.NewAdmissionController(svc.Admissions),
		Dashboards:  controllers.NewDashboardController(svc.Dashboards, svc.Audit),
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery())

	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	if !cfg.IsProduction() {
		docHost := ""
		if cfg.Server.Host != "" && cfg.Server.Host != "0.0.0.0" {
			docHost = cfg.Address()
		}
		routes.SetupSwagger(router, docHost)
	}

	routes.SetupRouter(router, deps.Controllers, deps.Gate, deps.Store)
	return router, nil
}

// Build runs every setup step against a loaded config
func Build(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*gin.Engine, *Dependencies, error) {
	setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := SetupDatabase(setupCtx, cfg, lgr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := BuildDependencies(setupCtx, cfg, store, lgr)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router, err := SetupRouter(cfg, deps, lgr)
	if err != nil {
		_ = deps.Close(ctx)
		return nil, nil, err
	}
	return router, deps, nil
}
