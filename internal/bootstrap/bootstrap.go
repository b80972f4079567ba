package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/vitbooks/exchange/internal/app/controllers"
	appMigrations "github.com/vitbooks/exchange/internal/app/migrations"
	appRepos "github.com/vitbooks/exchange/internal/app/repositories"
	appRoutes "github.com/vitbooks/exchange/internal/app/routes"
	appServices "github.com/vitbooks/exchange/internal/app/services"
	"github.com/vitbooks/exchange/internal/config"
	"github.com/vitbooks/exchange/internal/db"
	appMiddleware "github.com/vitbooks/exchange/internal/middleware"
	pkgAuth "github.com/vitbooks/exchange/internal/pkg/auth"
	"github.com/vitbooks/exchange/internal/pkg/email"
	"github.com/vitbooks/exchange/internal/pkg/filestorage"
	"github.com/vitbooks/exchange/internal/pkg/helpers"
	"github.com/vitbooks/exchange/internal/pkg/logger"
	"github.com/vitbooks/exchange/internal/pkg/ratelimit"
	"github.com/vitbooks/exchange/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService             appServices.AuthService
	ListingService          appServices.ListingService
	RentalRequestService    appServices.RentalRequestService
	BorrowRequestService    appServices.BorrowRequestService
	ProfileService          appServices.ProfileService
	AuthController          *appControllers.AuthController
	ListingController       *appControllers.ListingController
	RentalRequestController *appControllers.RentalRequestController
	BorrowRequestController *appControllers.BorrowRequestController
	ProfileController       *appControllers.ProfileController
	HealthController        *appControllers.HealthController
	AuthMiddleware          *appMiddleware.AuthMiddleware
	Repos                   *appRepos.Repositories
	JWTService              *pkgAuth.JWTService
	ImageStore              filestorage.ImageStore
	EmailSender             email.Sender
	Redis                   *redis.Client // nil when rate limiting is disabled
	Logger                  zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds demo data when asked to.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.SeedDemoData {
		if err := seed.CreateDemoData(ctx, appRepos.NewRepositories(database.Pool), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.ImageStore, err = newImageStore(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.EmailSender = newEmailSender(cfg, lgr)

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			// The limiter fails open, so an unreachable Redis only weakens throttling
			lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis is not reachable, OTP rate limiting will fail open")
		}
		limiter = ratelimit.NewRedisLimiter(deps.Redis, "otp", cfg.Auth.OTPRateLimit, cfg.Auth.OTPRateWindow)
	} else {
		lgr.Info().Msg("Redis address not configured, OTP rate limiting disabled")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.Expiration, 168*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.OTPRepository,
		deps.JWTService,
		deps.EmailSender,
		limiter,
		appServices.AuthConfig{
			AllowedEmailSuffix: cfg.AllowedEmailSuffix(),
			OTPTTL:             cfg.Auth.OTPTTL,
		},
		lgr,
	)
	deps.ListingService = appServices.NewListingService(deps.Repos.ListingRepository, deps.ImageStore, lgr)
	deps.RentalRequestService = appServices.NewRentalRequestService(deps.Repos.RentalRequestRepository, deps.Repos.ListingRepository, lgr)
	deps.BorrowRequestService = appServices.NewBorrowRequestService(deps.Repos.BorrowRequestRepository, lgr)
	deps.ProfileService = appServices.NewProfileService(deps.Repos.ListingRepository, deps.Repos.RentalRequestRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ListingController = appControllers.NewListingController(deps.ListingService)
	deps.RentalRequestController = appControllers.NewRentalRequestController(deps.RentalRequestService)
	deps.BorrowRequestController = appControllers.NewBorrowRequestController(deps.BorrowRequestService)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService)
	deps.HealthController = appControllers.NewHealthController(database.Pool)

	return deps, nil
}

// newImageStore picks the listing photo backend named by storage.driver
func newImageStore(ctx context.Context, cfg *config.Config) (filestorage.ImageStore, error) {
	if cfg.Storage.Driver == "minio" {
		return filestorage.NewMinIOStorage(ctx, filestorage.MinIOConfig{
			Endpoint:  cfg.Storage.MinIOEndpoint,
			AccessKey: cfg.Storage.MinIOAccessKey,
			SecretKey: cfg.Storage.MinIOSecretKey,
			Bucket:    cfg.Storage.MinIOBucket,
			UseSSL:    cfg.Storage.MinIOUseSSL,
			PublicURL: cfg.Storage.MinIOPublicURL,
		})
	}

	// This must match the static file serving URL path
	baseURL := strings.TrimRight(cfg.Server.PublicURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	return filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
}

// newEmailSender picks the OTP mail provider named by email.provider
func newEmailSender(cfg *config.Config, lgr zerolog.Logger) email.Sender {
	from := email.From{Name: cfg.Email.FromName, Address: cfg.Email.FromAddress}

	switch cfg.Email.Provider {
	case "smtp":
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     from,
			UseTLS:   cfg.Email.SMTPUseTLS,
		}, lgr)
	case "sendgrid":
		return email.NewSendGridSender(cfg.Email.SendGridAPIKey, from, lgr)
	default:
		lgr.Warn().Msg("Email provider is 'log', OTP codes will be written to the log instead of mailed")
		return email.NewLogSender(lgr)
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.UseJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(cfg.CORSOriginList()))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ListingController,
		deps.RentalRequestController,
		deps.BorrowRequestController,
		deps.ProfileController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
