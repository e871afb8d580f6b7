package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/geofence-security/internal/core/events"
	"github.com/go-redis/redis/v8"
)

const DefaultChannelPrefix = "geofence:notifications"

// Broadcaster fans sent notifications out on one Redis channel per
// organization. With no client configured it only logs the dispatch.
type Broadcaster struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewBroadcaster(client *redis.Client, prefix string, logger *slog.Logger) *Broadcaster {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &Broadcaster{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (b *Broadcaster) Channel(organizationID int64) string {
	return fmt.Sprintf("%s:%d", b.prefix, organizationID)
}

func (b *Broadcaster) HandleNotificationSent(ctx context.Context, event events.Event) error {
	sent, ok := event.(*events.NotificationSentEvent)
	if !ok {
		b.logger.Error("invalid event type for notification sent handler", "event_type", event.EventType())
		return fmt.Errorf("expected NotificationSentEvent, got %T", event)
	}

	channel := b.Channel(sent.OrganizationID)
	if b.client == nil {
		b.logger.Info("notification dispatched",
			"notification_id", sent.NotificationID,
			"channel", channel,
			"target_type", sent.TargetType,
			"event_id", sent.EventID())
		return nil
	}

	payload, err := json.Marshal(sent)
	if err != nil {
		return fmt.Errorf("encode notification %d: %w", sent.NotificationID, err)
	}
	receivers, err := b.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		b.logger.Error("failed to broadcast notification",
			"error", err,
			"notification_id", sent.NotificationID,
			"channel", channel)
		return fmt.Errorf("broadcast notification %d: %w", sent.NotificationID, err)
	}

	b.logger.Info("notification broadcast",
		"notification_id", sent.NotificationID,
		"channel", channel,
		"receivers", receivers)
	return nil
}

func (b *Broadcaster) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeNotificationSent, b.HandleNotificationSent)

	b.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeNotificationSent})
}

// Listen consumes every organization channel until ctx is done, handing each
// decoded notification to handle.
func (b *Broadcaster) Listen(ctx context.Context, handle func(channel string, sent events.NotificationSentEvent)) error {
	if b.client == nil {
		return fmt.Errorf("redis is not configured")
	}

	sub := b.client.PSubscribe(ctx, b.prefix+":*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.prefix, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var sent events.NotificationSentEvent
			if err := json.Unmarshal([]byte(msg.Payload), &sent); err != nil {
				b.logger.Warn("dropping malformed notification payload", "error", err, "channel", msg.Channel)
				continue
			}
			handle(msg.Channel, sent)
		}
	}
}
