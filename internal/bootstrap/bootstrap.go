package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/uruhongore/academy/internal/app/auth"
	appControllers "github.com/uruhongore/academy/internal/app/controllers"
	appMigrations "github.com/uruhongore/academy/internal/app/migrations"
	appRepos "github.com/uruhongore/academy/internal/app/repositories"
	appRoutes "github.com/uruhongore/academy/internal/app/routes"
	appServices "github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/config"
	"github.com/uruhongore/academy/internal/db"
	appMiddleware "github.com/uruhongore/academy/internal/middleware"
	pkgAuth "github.com/uruhongore/academy/internal/pkg/auth"
	"github.com/uruhongore/academy/internal/pkg/bulletin"
	"github.com/uruhongore/academy/internal/pkg/helpers"
	"github.com/uruhongore/academy/internal/pkg/logger"
	"github.com/uruhongore/academy/internal/pkg/metrics"
	"github.com/uruhongore/academy/internal/pkg/photostore"
	"github.com/uruhongore/academy/internal/pkg/websocket"
	"github.com/uruhongore/academy/internal/seed"
)

// UploadsRoute is where the local photo backend is served
const UploadsRoute = "/uploads"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Policy         *appAuth.Policy
	Services       *appServices.Services
	Hub            *websocket.Hub
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// Load configuration
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	// Configure the global logger; "text" selects the console writer
	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres, applies pending migrations and seeds the HEAD account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Str("path", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	// Run migrations
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed the HEAD account; a failure here does not stop the server
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	head := seed.HeadAccount{
		Phone:    cfg.Seed.HeadPhone,
		Password: cfg.Seed.HeadPassword,
		FullName: cfg.Seed.HeadName,
		Email:    cfg.Seed.HeadEmail,
	}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), head, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// NewPhotoStore builds the photo store for the configured storage driver.
func NewPhotoStore(cfg *config.Config) (*photostore.Store, error) {
	var backend photostore.Backend
	switch cfg.Storage.Driver {
	case "oss":
		b, err := photostore.NewOSSBackend(photostore.OSSConfig{
			Endpoint:        cfg.Storage.OSS.Endpoint,
			AccessKeyID:     cfg.Storage.OSS.AccessKeyID,
			AccessKeySecret: cfg.Storage.OSS.AccessKeySecret,
			Bucket:          cfg.Storage.OSS.Bucket,
			PublicBaseURL:   cfg.Storage.OSS.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize oss storage: %w", err)
		}
		backend = b
	default:
		b, err := photostore.NewLocalBackend(cfg.Storage.LocalPath, cfg.BaseURL()+UploadsRoute)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		backend = b
	}
	return photostore.New(backend, cfg.Storage.PhotoFolder, cfg.Storage.MaxPhotoBytes), nil
}

// SchoolFromConfig is the institution printed on every bulletin header.
func SchoolFromConfig(cfg *config.Config) bulletin.School {
	return bulletin.School{
		Name:            cfg.School.Name,
		Contact:         cfg.School.Contact,
		District:        cfg.School.District,
		DistrictVillage: cfg.School.DistrictVill,
		Sector:          cfg.School.Sector,
		SectorVillage:   cfg.School.SectorVillage,
	}
}

// BuildDependencies initializes repositories, services and controllers. The hub is created
// but not started; the caller runs it.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	// Initialize repositories
	deps.Repos = appRepos.NewRepositories(dbPool)

	// Photo storage
	photos, err := NewPhotoStore(cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize photo storage")
		return nil, err
	}

	// Auth and authorization
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Policy = appAuth.NewPolicy()
	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	// Initialize services
	stores := appServices.Stores{
		Users:        deps.Repos.UserRepository,
		Students:     deps.Repos.StudentRepository,
		Modules:      deps.Repos.ModuleRepository,
		AcademicData: deps.Repos.AcademicDataRepository,
		Reports:      deps.Repos.ReportRepository,
	}
	deps.Services = appServices.NewServices(stores, deps.JWTService, photos, deps.Hub, SchoolFromConfig(cfg), lgr)

	// Middleware and controllers
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = NewControllers(deps.Services, deps.Policy, deps.Hub, lgr)

	return deps, nil
}

// NewControllers builds every HTTP controller from the services.
func NewControllers(svc *appServices.Services, policy *appAuth.Policy, hub *websocket.Hub, lgr zerolog.Logger) appRoutes.Controllers {
	c := appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(svc.AuthService, lgr),
		User:         appControllers.NewUserController(svc.UserService),
		Module:       appControllers.NewModuleController(svc.ModuleService, lgr),
		AcademicData: appControllers.NewAcademicDataController(svc.AcademicDataService, policy, lgr),
		Student:      appControllers.NewStudentController(svc.StudentService, policy, lgr),
		Report:       appControllers.NewReportController(svc.ReportService, svc.StudentService, svc.DocumentService, policy, lgr),
		Document:     appControllers.NewDocumentController(svc.DocumentService),
	}
	if hub != nil {
		c.WebSocket = websocket.NewHandler(hub, logger.Component("websocket"))
	}
	return c
}

// NewRouter builds a gin engine with the API middleware and routes, without swagger or metrics.
func NewRouter(controllers appRoutes.Controllers, authMiddleware *appMiddleware.AuthMiddleware, origins []string, lgr zerolog.Logger) *gin.Engine {
	router := gin.New()
	// Global middleware
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.Metrics())
	router.Use(appMiddleware.CORS(origins))

	appRoutes.SetupRouter(router, controllers, authMiddleware)
	return router
}

// SetupRouter configures the Gin engine with middleware, routes, swagger and metrics.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := NewRouter(deps.Controllers, deps.AuthMiddleware, cfg.AllowedOrigins(), lgr)

	appRoutes.SetupSwagger(router)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
		lgr.Info().Str("path", cfg.Metrics.Path).Msg("Prometheus metrics exposed")
	}

	if cfg.Storage.Driver == "local" {
		router.Static(UploadsRoute, cfg.Storage.LocalPath)
		lgr.Info().Str("path", cfg.Storage.LocalPath).Msg("Static file serving configured for uploads directory")
	}

	return router
}
