package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/recruitment/internal/core/events"
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
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers to every subscriber of the event type", func() {
		var calls atomic.Int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(events.EventTypeApplicationCreated, func(ctx context.Context, e events.Event) error {
				calls.Add(1)
				return nil
			})
		}
		bus.Subscribe(events.EventTypeApplicationStatusChanged, func(ctx context.Context, e events.Event) error {
			Fail("wrong subscriber invoked")
			return nil
		})

		Expect(bus.Publish(context.Background(), events.NewApplicationCreatedEvent(1, 2, "Backend Developer", 3))).To(Succeed())
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(calls.Load()).To(Equal(int32(3)))
	})

	It("keeps handlers running after the publishing request is cancelled", func() {
		received := make(chan error, 1)
		bus.Subscribe(events.EventTypeApplicationCreated, func(ctx context.Context, e events.Event) error {
			time.Sleep(10 * time.Millisecond)
			received <- ctx.Err()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewApplicationCreatedEvent(1, 2, "Backend Developer", 3))).To(Succeed())
		cancel()

		Eventually(received).Should(Receive(BeNil()))
	})

	It("does not propagate asynchronous handler failures or panics", func() {
		bus.Subscribe(events.EventTypeApplicationCreated, func(ctx context.Context, e events.Event) error {
			return errors.New("smtp unavailable")
		})
		bus.Subscribe(events.EventTypeApplicationCreated, func(ctx context.Context, e events.Event) error {
			panic("template exploded")
		})

		Expect(bus.Publish(context.Background(), events.NewApplicationCreatedEvent(1, 2, "Backend Developer", 3))).To(Succeed())
		Expect(bus.Wait(context.Background())).To(Succeed())
	})

	It("carries the status change in the payload", func() {
		e := events.NewApplicationStatusChangedEvent(10, 20, "QA Engineer", 30, "PENDING", "INTERVIEW", 40)
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.Payload()).To(HaveKeyWithValue("status", "INTERVIEW"))
		Expect(e.Payload()).To(HaveKeyWithValue("previous_status", "PENDING"))
	})
})
