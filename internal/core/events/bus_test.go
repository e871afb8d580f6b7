package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
	})

	It("delivers published events to every subscriber", func() {
		var calls int32
		for i := 0; i < 2; i++ {
			bus.Subscribe(events.EventTypeAlertResolved, func(ctx context.Context, e events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}
		Expect(bus.HandlerCount(events.EventTypeAlertResolved)).To(Equal(2))

		Expect(bus.Publish(context.Background(), events.NewAlertResolvedEvent(1, 2))).To(Succeed())
		Eventually(func() int32 { return atomic.LoadInt32(&calls) }).Should(Equal(int32(2)))
	})

	It("keeps handler contexts alive after the caller cancels", func() {
		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		bus.Subscribe(events.EventTypeReportGenerated, func(hctx context.Context, e events.Event) error {
			time.Sleep(20 * time.Millisecond)
			errCh <- hctx.Err()
			return nil
		})

		Expect(bus.Publish(ctx, events.NewReportGeneratedEvent(1, 1, "reports/1.json"))).To(Succeed())
		cancel()
		Eventually(errCh).Should(Receive(BeNil()))
	})

	It("returns the first handler error on synchronous publish", func() {
		bus.Subscribe(events.EventTypeIncidentResolved, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})
		err := bus.PublishSync(context.Background(), events.NewIncidentResolvedEvent(1, 1, 1))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("keeps delivering to other handlers when one panics", func() {
		delivered := make(chan struct{}, 1)
		bus.Subscribe(events.EventTypeNotificationSent, func(ctx context.Context, e events.Event) error {
			panic("handler bug")
		})
		bus.Subscribe(events.EventTypeNotificationSent, func(ctx context.Context, e events.Event) error {
			delivered <- struct{}{}
			return nil
		})

		event := events.NewNotificationSentEvent(1, 1, "NORMAL", "t", "m", "ALL_OFFICERS", nil, nil, time.Now())
		Expect(bus.Publish(context.Background(), event)).To(Succeed())
		Eventually(delivered).Should(Receive())
	})

	It("ignores events without subscribers", func() {
		Expect(bus.PublishSync(context.Background(), events.NewAlertResolvedEvent(1, 1))).To(Succeed())
	})

	It("builds notification events with their payload", func() {
		sentAt := time.Now()
		e := events.NewNotificationSentEvent(7, 3, "EMERGENCY", "Evacuate", "Leave now", "ALL_OFFICERS", nil, []int64{1, 2}, sentAt)
		Expect(e.EventType()).To(Equal(events.EventTypeNotificationSent))
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.OrganizationID).To(Equal(int64(3)))
		Expect(e.Payload()).To(HaveKeyWithValue("notification_id", int64(7)))
	})
})
