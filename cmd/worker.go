package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/events"
	"github.com/frahmantamala/geofence-security/internal/notification"
	"github.com/frahmantamala/geofence-security/internal/report"
	reportPostgres "github.com/frahmantamala/geofence-security/internal/report/postgres"
	"github.com/frahmantamala/geofence-security/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers for notification fan-out, pending report generation and event bus debugging.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Consume sent notifications from redis",
	Long:  `Subscribe to every organization notification channel and log each delivery`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

var reportWorkerCmd = &cobra.Command{
	Use:   "reports",
	Short: "Generate pending reports",
	Long:  `Queue every report that has not been generated yet on the report worker pool`,
	Run: func(cmd *cobra.Command, args []string) {
		startReportWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus and log every domain event`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers    int
	jobQueueSize  int
	channelPrefix string
)

func waitForSignal() os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return <-sigChan
}

func startNotificationWorker() {
	config, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	if !config.Redis.Enabled() {
		log.Error("notification worker needs redis.addr")
		os.Exit(1)
	}

	client := newRedisClient(config.Redis)
	defer client.Close()

	broadcaster := notification.NewBroadcaster(client, getStringFlag(channelPrefix, config.Redis.ChannelPrefix), log)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := waitForSignal()
		log.Info("received signal, shutting down notification worker", "signal", sig)
		cancel()
	}()

	log.Info("notification worker is running. Press Ctrl+C to stop.", "addr", config.Redis.Addr)

	err = broadcaster.Listen(ctx, func(channel string, sent events.NotificationSentEvent) {
		log.Info("notification delivered",
			"channel", channel,
			"notification_id", sent.NotificationID,
			"organization_id", sent.OrganizationID,
			"notification_type", sent.NotificationType,
			"target_type", sent.TargetType,
			"officers", len(sent.TargetOfficerIDs))
	})
	if err != nil {
		log.Error("notification worker stopped", "error", err)
		os.Exit(1)
	}
	log.Info("notification worker shutdown complete")
}

func startReportWorker() {
	config, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	sqlDB, err := initDB(config.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	gormDB, err := initGorm(sqlDB, config.Env)
	if err != nil {
		log.Error("failed to initialize gorm", "error", err)
		os.Exit(1)
	}

	store, err := newArtifactStore(context.Background(), config.Storage)
	if err != nil {
		log.Error("failed to initialize report storage", "error", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(log)
	if config.Redis.Enabled() {
		client := newRedisClient(config.Redis)
		defer client.Close()
		notification.NewBroadcaster(client, config.Redis.ChannelPrefix, log).RegisterEventHandlers(bus)
	}

	repo := reportPostgres.NewReportRepository(gormDB)
	service := report.NewService(repo, store, bus, log)
	queue := report.NewQueue(report.QueueConfig{
		MaxWorkers:   getIntFlag(maxWorkers, config.Reports.Workers),
		JobQueueSize: getIntFlag(jobQueueSize, config.Reports.QueueSize),
		JobTimeout:   config.Reports.JobTimeout,
	}, service.Process, log)

	pending := false
	items, total, err := repo.List(report.ListFilter{IsGenerated: &pending}, 1000, 0)
	if err != nil {
		log.Error("failed to list pending reports", "error", err)
		queue.Shutdown()
		os.Exit(1)
	}

	queued := 0
	for _, r := range items {
		if err := queue.Enqueue(report.Job{ReportID: r.ID, RequestedBy: r.GeneratedByID}); err != nil {
			log.Warn("report not queued", "report_id", r.ID, "error", err)
			continue
		}
		queued++
	}
	log.Info("pending reports queued", "pending", total, "queued", queued)

	sig := waitForSignal()
	log.Info("received signal, shutting down report worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		queue.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Info("report worker pool shutdown complete")
	case <-ctx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()
	eventBus := events.NewEventBus(log)
	subscribeEventLogger(eventBus)

	log.Info("event bus worker started. Waiting for events...")

	sig := waitForSignal()
	log.Info("received signal, shutting down event bus", "signal", sig)
	log.Info("event bus shutdown complete")
}

// subscribeEventLogger logs every domain event type published on bus.
func subscribeEventLogger(bus *events.EventBus) {
	log := logger.LoggerWrapper()
	for _, eventType := range []string{
		events.EventTypeAlertResolved,
		events.EventTypeIncidentResolved,
		events.EventTypeNotificationSent,
		events.EventTypeReportGenerated,
	} {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			log.Info("received event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	reportWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	reportWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	notificationWorkerCmd.Flags().StringVar(&channelPrefix, "channel-prefix", "", "Redis channel prefix (overrides config)")

	workerCmd.AddCommand(notificationWorkerCmd)
	workerCmd.AddCommand(reportWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
