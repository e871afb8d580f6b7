package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/events"
	"github.com/frahmantamala/geofence-security/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish sample domain events and inspect handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event",
	Long:  `Publish a sample domain event to an in-process event bus for debugging handlers`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var (
	eventData    string
	eventEntity  int64
	eventOrgID   int64
	eventActorID int64
)

// sampleEvent builds a domain event of eventType, or a bare event for unknown types.
func sampleEvent(eventType string) events.Event {
	switch eventType {
	case events.EventTypeAlertResolved:
		return events.NewAlertResolvedEvent(eventEntity, eventActorID)
	case events.EventTypeIncidentResolved:
		return events.NewIncidentResolvedEvent(eventEntity, 0, eventActorID)
	case events.EventTypeNotificationSent:
		return events.NewNotificationSentEvent(eventEntity, eventOrgID, "NORMAL", "Test notification", eventData, "ALL_OFFICERS", nil, nil, time.Now())
	case events.EventTypeReportGenerated:
		return events.NewReportGeneratedEvent(eventEntity, eventActorID, "")
	}

	return events.BaseEvent{
		ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}
}

func publishTestEvent(eventType string) {
	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)
	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		log.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	event := sampleEvent(eventType)
	log.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())

	if err := eventBus.PublishSync(context.Background(), event); err != nil {
		log.Error("failed to publish event", "error", err)
		return
	}

	log.Info("test event published successfully")
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")
	publishEventCmd.Flags().Int64Var(&eventEntity, "id", 1, "Id of the alert, incident, notification or report")
	publishEventCmd.Flags().Int64Var(&eventOrgID, "org", 1, "Organization id for notification events")
	publishEventCmd.Flags().Int64Var(&eventActorID, "actor", 1, "Id of the acting user")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
