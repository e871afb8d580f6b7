package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/alert"
	alertPostgres "github.com/frahmantamala/geofence-security/internal/alert/postgres"
	"github.com/frahmantamala/geofence-security/internal/auth"
	authPostgres "github.com/frahmantamala/geofence-security/internal/auth/postgres"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	"github.com/frahmantamala/geofence-security/internal/geofence"
	geofencePostgres "github.com/frahmantamala/geofence-security/internal/geofence/postgres"
	"github.com/frahmantamala/geofence-security/internal/incident"
	incidentPostgres "github.com/frahmantamala/geofence-security/internal/incident/postgres"
	"github.com/frahmantamala/geofence-security/internal/notification"
	notificationPostgres "github.com/frahmantamala/geofence-security/internal/notification/postgres"
	"github.com/frahmantamala/geofence-security/internal/officer"
	officerPostgres "github.com/frahmantamala/geofence-security/internal/officer/postgres"
	"github.com/frahmantamala/geofence-security/internal/organization"
	organizationPostgres "github.com/frahmantamala/geofence-security/internal/organization/postgres"
	"github.com/frahmantamala/geofence-security/internal/report"
	reportPostgres "github.com/frahmantamala/geofence-security/internal/report/postgres"
	"github.com/frahmantamala/geofence-security/internal/subadmin"
	subadminPostgres "github.com/frahmantamala/geofence-security/internal/subadmin/postgres"
	"github.com/frahmantamala/geofence-security/internal/transport"
	"github.com/frahmantamala/geofence-security/internal/transport/rest"
	"github.com/frahmantamala/geofence-security/internal/transport/swagger"
	"github.com/frahmantamala/geofence-security/internal/user"
	userPostgres "github.com/frahmantamala/geofence-security/internal/user/postgres"
	"github.com/frahmantamala/geofence-security/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	DB          *sqlx.DB
	Gorm        *gorm.DB
	Redis       *redis.Client
	EventBus    *events.EventBus
	ReportQueue *report.Queue
	Router      *chi.Mux
	Logger      *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	log := deps.Logger

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	log.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Close()
	log.Info("Server stopped")
}

// Close releases the worker pool and connections in reverse start order.
func (d *Dependencies) Close() {
	if d.ReportQueue != nil {
		d.ReportQueue.Shutdown()
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db, config.Env)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	deps := &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gormDB,
		EventBus: events.NewEventBus(log),
		Router:   chi.NewRouter(),
		Logger:   log,
	}

	if config.Redis.Enabled() {
		deps.Redis = newRedisClient(config.Redis)
		if err := deps.Redis.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, notifications will only be logged", "addr", config.Redis.Addr, "error", err)
		}
	}

	if config.Server.OpenAPIPath != "" {
		if _, err := swagger.LoadSpec(context.Background(), config.Server.OpenAPIPath); err != nil {
			log.Warn("openapi document failed to load", "path", config.Server.OpenAPIPath, "error", err)
		}
	}

	store, err := newArtifactStore(context.Background(), config.Storage)
	if err != nil {
		deps.Close()
		return nil, err
	}

	handlers := buildHandlers(deps, store)

	rest.RegisterAllRoutes(deps.Router, db, handlers, rest.RouterConfig{
		AllowedOrigins: config.Server.AllowedOrigins,
		OpenAPIPath:    config.Server.OpenAPIPath,
	}, log)

	return deps, nil
}

func buildHandlers(deps *Dependencies, store report.ArtifactStore) rest.Handlers {
	cfg := deps.Config
	log := deps.Logger
	base := transport.NewBaseHandler(log)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokenGen, log)

	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), cfg.Security.BCryptCost, log)
	organizationService := organization.NewService(organizationPostgres.NewOrganizationRepository(deps.Gorm), log)
	subadminService := subadmin.NewService(subadminPostgres.NewSubAdminRepository(deps.Gorm), cfg.Security.BCryptCost, log)
	geofenceService := geofence.NewService(geofencePostgres.NewGeofenceRepository(deps.Gorm), log)
	officerService := officer.NewService(officerPostgres.NewOfficerRepository(deps.Gorm), log)
	incidentService := incident.NewService(incidentPostgres.NewIncidentRepository(deps.Gorm), deps.EventBus, log)
	alertService := alert.NewService(alertPostgres.NewAlertRepository(deps.Gorm), deps.EventBus, log)
	notificationService := notification.NewService(notificationPostgres.NewNotificationRepository(deps.Gorm), deps.EventBus, log)
	reportService := report.NewService(reportPostgres.NewReportRepository(deps.Gorm), store, deps.EventBus, log)

	broadcaster := notification.NewBroadcaster(deps.Redis, cfg.Redis.ChannelPrefix, log)
	broadcaster.RegisterEventHandlers(deps.EventBus)

	deps.ReportQueue = report.NewQueue(report.QueueConfig{
		MaxWorkers:   cfg.Reports.Workers,
		JobQueueSize: cfg.Reports.QueueSize,
		JobTimeout:   cfg.Reports.JobTimeout,
	}, reportService.Process, log)

	return rest.Handlers{
		Auth:         auth.NewHandler(base, authService),
		RBAC:         auth.NewRBACAuthorization(auth.NewPermissionChecker(), log),
		User:         user.NewHandler(base, userService),
		Organization: organization.NewHandler(base, organizationService),
		SubAdmin:     subadmin.NewHandler(base, subadminService),
		Geofence:     geofence.NewHandler(base, geofenceService),
		Officer:      officer.NewHandler(base, officerService),
		Incident:     incident.NewHandler(base, incidentService),
		Alert:        alert.NewHandler(base, alertService),
		Notification: notification.NewHandler(base, notificationService),
		Report:       report.NewHandler(base, reportService, deps.ReportQueue),
		Health:       rest.NewHealthHandler(deps.DB, deps.Redis),
	}
}

func newRedisClient(cfg internal.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// newArtifactStore prefers object storage and falls back to the local disk.
func newArtifactStore(ctx context.Context, cfg internal.StorageConfig) (report.ArtifactStore, error) {
	if cfg.Enabled() {
		store, err := report.NewMinioStore(ctx, report.MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize report storage: %w", err)
		}
		return store, nil
	}

	dir := cfg.LocalDir
	if dir == "" {
		dir = "./var/reports"
	}
	return report.NewLocalStore(dir), nil
}
