package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"tutor-portal/config"
	deliveryHttp "tutor-portal/internal/delivery/http"
	"tutor-portal/internal/delivery/http/handler"
	"tutor-portal/internal/delivery/http/middleware"
	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"
	"tutor-portal/internal/infrastructure/cache"
	"tutor-portal/internal/infrastructure/database"
	"tutor-portal/internal/infrastructure/push"
	"tutor-portal/internal/repository"
	"tutor-portal/internal/repository/memory"
	"tutor-portal/internal/service"
	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/jwt"
	"tutor-portal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// repositories is the storage layer selected by DB_DRIVER.
type repositories struct {
	transactor domainRepo.Transactor
	user       domainRepo.UserRepository
	tutor      domainRepo.TutorRepository
	idoso      domainRepo.IdosoRepository
	medicacao  domainRepo.MedicacaoRepository
	exame      domainRepo.ExameRepository
	evento     domainRepo.EventoRepository
	auditLog   domainRepo.AuditLogRepository
}

const shutdownTimeout = 10 * time.Second

// New creates a new App instance with all dependencies initialized. ctx bounds
// the startup connections only.
func New(ctx context.Context) (_ *App, err error) {
	app := &App{}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	repos, err := app.initializeStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	var pusher service.Pusher
	if cfg.Push.FirebaseCredentialsPath != "" {
		firebasePusher, err := push.NewFirebasePusher(ctx, cfg.Push.FirebaseCredentialsPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize push notifications: %w", err)
		}
		pusher = firebasePusher
		log.Info("Push notifications enabled")
	} else {
		log.Info("FIREBASE_CREDENTIALS_PATH not set, push notifications disabled")
	}

	app.Server = initializeServer(cfg, log, repos, redisClient, pusher)
	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func (app *App) initializeStorage(cfg *config.Config, log *logrus.Logger) (*repositories, error) {
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			transactor: memory.NewTransactor(store),
			user:       memory.NewUserRepository(store),
			tutor:      memory.NewTutorRepository(store),
			idoso:      memory.NewIdosoRepository(store),
			medicacao:  memory.NewMedicacaoRepository(store),
			exame:      memory.NewExameRepository(store),
			evento:     memory.NewEventoRepository(store),
			auditLog:   memory.NewAuditLogRepository(store),
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		log.Info("Database connected successfully")

		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		return &repositories{
			transactor: repository.NewTransactor(db),
			user:       repository.NewUserRepository(db),
			tutor:      repository.NewTutorRepository(db),
			idoso:      repository.NewIdosoRepository(db),
			medicacao:  repository.NewMedicacaoRepository(db),
			exame:      repository.NewExameRepository(db),
			evento:     repository.NewEventoRepository(db),
			auditLog:   repository.NewAuditLogRepository(db),
		}, nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB.Driver)
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, repos *repositories, redisClient *redis.Client, pusher service.Pusher) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize services
	auditService := service.NewAuditService(log, repos.auditLog)
	sessionService := service.NewSessionService(redisClient, log, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	notificationService := service.NewNotificationService(pusher, log, repos.tutor, entity.Severidade(cfg.Push.MinSeverity))
	hub := service.NewEventHub(log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, repos.transactor, repos.user, repos.tutor, repos.idoso, jwtService, sessionService, auditService, cfg.Tutor.MaxEmergencyContacts)
	tutorUsecase := usecase.NewTutorUsecase(log, repos.transactor, repos.tutor, auditService, cfg.Tutor.MaxEmergencyContacts)
	idosoUsecase := usecase.NewIdosoUsecase(log, repos.transactor, repos.idoso, auditService)
	medicacaoUsecase := usecase.NewMedicacaoUsecase(log, repos.transactor, repos.idoso, repos.medicacao, auditService)
	exameUsecase := usecase.NewExameUsecase(log, repos.transactor, repos.idoso, repos.exame, auditService)
	eventoUsecase := usecase.NewEventoUsecase(log, repos.transactor, repos.evento, auditService, notificationService, hub, cfg.Event.RetentionLimit)
	painelUsecase := usecase.NewPainelUsecase(log, repos.idoso, repos.evento)
	emergenciaUsecase := usecase.NewEmergenciaUsecase(log, repos.transactor, repos.tutor, repos.idoso, repos.evento, auditService, hub, cfg.Event.RetentionLimit)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	tutorHandler := handler.NewTutorHandler(tutorUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(tutorUsecase)
	idosoHandler := handler.NewIdosoHandler(idosoUsecase, medicacaoUsecase, exameUsecase, customValidator)
	eventoHandler := handler.NewEventoHandler(eventoUsecase, customValidator, cfg.Event.RetentionLimit)
	streamHandler := handler.NewStreamHandler(hub, log, cfg.App.CORSAllowedOrigin)
	painelHandler := handler.NewPainelHandler(painelUsecase)
	emergenciaHandler := handler.NewEmergenciaHandler(emergenciaUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigin)
	deviceKeyMiddleware := middleware.NewDeviceKeyMiddleware(cfg.Auth.DeviceAPIKey)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler, tutorHandler, auditLogHandler, idosoHandler, eventoHandler,
		streamHandler, painelHandler, emergenciaHandler,
		authMiddleware, corsMiddleware, deviceKeyMiddleware, loggingMiddleware,
	)

	// Create server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
// A listener failure is returned instead of exiting the process.
func (app *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logrus.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
