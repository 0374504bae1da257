package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/events"
	"github.com/frahmantamala/recruitment/internal/notification"
	"github.com/frahmantamala/recruitment/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type RecordingSender struct {
	mu       sync.Mutex
	messages []notification.Message
	err      error
	release  chan struct{}
}

func (s *RecordingSender) Send(ctx context.Context, msg notification.Message) error {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *RecordingSender) Sent() []notification.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Message(nil), s.messages...)
}

type RecordingQueue struct {
	messages []notification.Message
}

func (q *RecordingQueue) Enqueue(msg notification.Message) bool {
	q.messages = append(q.messages, msg)
	return true
}

type StubDirectory struct {
	contacts map[int64]user.Contact
	staff    []user.Contact
	err      error
}

func (d *StubDirectory) Contact(_ context.Context, id int64) (user.Contact, bool, error) {
	if d.err != nil {
		return user.Contact{}, false, d.err
	}
	c, ok := d.contacts[id]
	return c, ok, nil
}

func (d *StubDirectory) StaffContacts(_ context.Context) ([]user.Contact, error) {
	return d.staff, d.err
}

type FakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *FakeAcknowledger) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *FakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *FakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

type FakeChannel struct {
	exchange, key string
	published     []amqp.Publishing
}

func (c *FakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key = exchange, key
	c.published = append(c.published, msg)
	return nil
}

var _ = Describe("Renderer", func() {
	var renderer *notification.Renderer

	BeforeEach(func() {
		var err error
		renderer, err = notification.NewRenderer()
		Expect(err).NotTo(HaveOccurred())
	})

	It("renders html and text bodies", func() {
		msg, err := renderer.Render(notification.KindStatusChanged, "jane@example.com", "Jane", notification.TemplateData{
			RecipientName:  "Jane",
			JobTitle:       "Backend Developer",
			PreviousStatus: "PENDING",
			Status:         "INTERVIEW",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.ID).NotTo(BeEmpty())
		Expect(msg.Subject).To(Equal("Application update: Backend Developer"))
		Expect(msg.TextBody).To(ContainSubstring("moved from PENDING to INTERVIEW"))
		Expect(msg.HTMLBody).To(ContainSubstring("<strong>INTERVIEW</strong>"))
	})

	It("escapes user-provided values in html", func() {
		msg, err := renderer.Render(notification.KindNewApplicant, "hr@example.com", "HR", notification.TemplateData{
			ApplicantName: "<script>x</script>",
			JobTitle:      "QA",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.HTMLBody).NotTo(ContainSubstring("<script>"))
	})

	It("rejects unknown kinds", func() {
		_, err := renderer.Render(notification.Kind("nope"), "a@example.com", "", notification.TemplateData{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Dispatcher", func() {
	It("delivers queued messages", func() {
		sender := &RecordingSender{}
		d := notification.NewDispatcher(sender, notification.DispatcherConfig{Workers: 2, QueueSize: 10}, discard)

		for i := 0; i < 5; i++ {
			Expect(d.Enqueue(notification.Message{ID: "m", To: "a@example.com"})).To(BeTrue())
		}

		Expect(d.Shutdown(context.Background())).To(Succeed())
		Expect(sender.Sent()).To(HaveLen(5))
		Expect(d.Stats().Sent).To(Equal(int64(5)))
	})

	It("drops messages when the queue is full", func() {
		sender := &RecordingSender{release: make(chan struct{})}
		d := notification.NewDispatcher(sender, notification.DispatcherConfig{Workers: 1, QueueSize: 1}, discard)

		accepted := 0
		for i := 0; i < 10; i++ {
			if d.Enqueue(notification.Message{ID: "m", To: "a@example.com"}) {
				accepted++
			}
		}
		Expect(accepted).To(BeNumerically("<=", 3))
		Expect(d.Stats().Dropped).To(Equal(int64(10 - accepted)))

		close(sender.release)
		Expect(d.Shutdown(context.Background())).To(Succeed())
		Expect(sender.Sent()).To(HaveLen(accepted))
	})

	It("counts failed deliveries without stopping", func() {
		sender := &RecordingSender{err: errors.New("smtp down")}
		d := notification.NewDispatcher(sender, notification.DispatcherConfig{Workers: 1, QueueSize: 4}, discard)

		d.Enqueue(notification.Message{ID: "1"})
		d.Enqueue(notification.Message{ID: "2"})

		Expect(d.Shutdown(context.Background())).To(Succeed())
		Expect(d.Stats().Failed).To(Equal(int64(2)))
	})

	It("refuses messages after shutdown", func() {
		d := notification.NewDispatcher(&RecordingSender{}, notification.DispatcherConfig{}, discard)
		Expect(d.Shutdown(context.Background())).To(Succeed())
		Expect(d.Enqueue(notification.Message{ID: "late"})).To(BeFalse())
	})

	It("gives up waiting when the shutdown context expires", func() {
		sender := &RecordingSender{release: make(chan struct{})}
		d := notification.NewDispatcher(sender, notification.DispatcherConfig{Workers: 1, QueueSize: 2}, discard)
		d.Enqueue(notification.Message{ID: "stuck"})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		Expect(d.Shutdown(ctx)).To(MatchError(context.DeadlineExceeded))
	})
})

var _ = Describe("EventHandler", func() {
	var (
		queue     *RecordingQueue
		directory *StubDirectory
		handler   *notification.EventHandler
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		queue = &RecordingQueue{}
		directory = &StubDirectory{
			contacts: map[int64]user.Contact{
				3: {UserID: 3, Username: "jane.design", Name: "Jane Design", Email: "jane@example.com"},
			},
			staff: []user.Contact{
				{UserID: 1, Username: "admin", Name: "admin", Email: "admin@example.com"},
				{UserID: 2, Username: "hr", Name: "hr", Email: "hr@example.com"},
			},
		}
		renderer, err := notification.NewRenderer()
		Expect(err).NotTo(HaveOccurred())
		handler = notification.NewEventHandler(directory, renderer, queue, "http://localhost:8080/", discard)
	})

	It("confirms to the applicant and notifies staff on a new application", func() {
		err := handler.HandleApplicationCreated(ctx, events.NewApplicationCreatedEvent(10, 20, "Backend Developer", 3))

		Expect(err).NotTo(HaveOccurred())
		Expect(queue.messages).To(HaveLen(3))
		Expect(queue.messages[0].Kind).To(Equal(notification.KindApplicationReceived))
		Expect(queue.messages[0].To).To(Equal("jane@example.com"))
		Expect(queue.messages[1].Kind).To(Equal(notification.KindNewApplicant))
		Expect(queue.messages[1].TextBody).To(ContainSubstring("Jane Design applied to Backend Developer"))
		Expect(queue.messages[1].TextBody).To(ContainSubstring("http://localhost:8080/jobs/20/applicants"))
		Expect(queue.messages[2].To).To(Equal("hr@example.com"))
	})

	It("still notifies staff when the applicant has no email", func() {
		err := handler.HandleApplicationCreated(ctx, events.NewApplicationCreatedEvent(10, 20, "QA", 99))

		Expect(err).NotTo(HaveOccurred())
		Expect(queue.messages).To(HaveLen(2))
		Expect(queue.messages[0].TextBody).To(ContainSubstring("Applicant #99"))
	})

	It("notifies the applicant of a status change", func() {
		err := handler.HandleApplicationStatusChanged(ctx, events.NewApplicationStatusChangedEvent(10, 20, "QA", 3, "PENDING", "HIRED", 1))

		Expect(err).NotTo(HaveOccurred())
		Expect(queue.messages).To(HaveLen(1))
		Expect(queue.messages[0].Kind).To(Equal(notification.KindStatusChanged))
		Expect(queue.messages[0].TextBody).To(ContainSubstring("PENDING to HIRED"))
	})

	It("rejects events of the wrong type", func() {
		err := handler.HandleApplicationStatusChanged(ctx, events.NewApplicationCreatedEvent(1, 2, "QA", 3))
		Expect(err).To(HaveOccurred())
	})

	It("surfaces directory failures", func() {
		directory.err = errors.New("database down")
		err := handler.HandleApplicationCreated(ctx, events.NewApplicationCreatedEvent(1, 2, "QA", 3))
		Expect(err).To(MatchError(ContainSubstring("database down")))
		Expect(queue.messages).To(BeEmpty())
	})

	It("is wired through the event bus", func() {
		bus := events.NewEventBus(discard)
		handler.RegisterEventHandlers(bus)

		Expect(bus.Publish(ctx, events.NewApplicationStatusChangedEvent(1, 2, "QA", 3, "PENDING", "OFFER", 1))).To(Succeed())
		Expect(bus.Wait(ctx)).To(Succeed())
		Expect(queue.messages).To(HaveLen(1))
	})
})

var _ = Describe("AMQP", func() {
	cfg := internal.AMQPConfig{Exchange: "recruitment.notifications", Queue: "notifications.email", RoutingKey: "email"}

	It("publishes messages as persistent JSON", func() {
		ch := &FakeChannel{}
		p := notification.NewAMQPPublisher(ch, cfg, discard)

		Expect(p.Send(context.Background(), notification.Message{ID: "abc", Kind: notification.KindTest, To: "a@example.com"})).To(Succeed())

		Expect(ch.exchange).To(Equal("recruitment.notifications"))
		Expect(ch.key).To(Equal("email"))
		Expect(ch.published).To(HaveLen(1))
		Expect(ch.published[0].DeliveryMode).To(Equal(amqp.Persistent))

		var decoded notification.Message
		Expect(json.Unmarshal(ch.published[0].Body, &decoded)).To(Succeed())
		Expect(decoded.To).To(Equal("a@example.com"))
	})

	Describe("Consumer.Handle", func() {
		var (
			sender   *RecordingSender
			consumer *notification.Consumer
			ack      *FakeAcknowledger
		)

		BeforeEach(func() {
			sender = &RecordingSender{}
			consumer = notification.NewConsumer(cfg, sender, 4, discard)
			ack = &FakeAcknowledger{}
		})

		delivery := func(body string, redelivered bool) amqp.Delivery {
			return amqp.Delivery{Acknowledger: ack, Body: []byte(body), Redelivered: redelivered}
		}

		It("acks delivered messages", func() {
			consumer.Handle(context.Background(), delivery(`{"id":"1","to":"a@example.com","subject":"hi"}`, false))
			Expect(ack.acked).To(BeTrue())
			Expect(sender.Sent()).To(HaveLen(1))
		})

		It("drops malformed messages", func() {
			consumer.Handle(context.Background(), delivery(`not json`, false))
			Expect(ack.nacked).To(BeTrue())
			Expect(ack.requeue).To(BeFalse())
		})

		It("requeues a failed send once", func() {
			sender.err = errors.New("smtp down")

			consumer.Handle(context.Background(), delivery(`{"id":"1","to":"a@example.com"}`, false))
			Expect(ack.requeue).To(BeTrue())

			consumer.Handle(context.Background(), delivery(`{"id":"1","to":"a@example.com"}`, true))
			Expect(ack.requeue).To(BeFalse())
		})
	})
})

var _ = Describe("NewSender", func() {
	It("defaults to the log driver", func() {
		s, err := notification.NewSender(internal.NotificationConfig{}, discard)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeAssignableToTypeOf(&notification.LogSender{}))
		Expect(s.Send(context.Background(), notification.Message{To: "a@example.com"})).To(Succeed())
	})

	It("builds an smtp sender without connecting", func() {
		s, err := notification.NewSender(internal.NotificationConfig{
			Driver: "smtp",
			From:   "no-reply@example.com",
			SMTP:   internal.SMTPConfig{Host: "localhost", Port: 1025},
		}, discard)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeAssignableToTypeOf(&notification.SMTPSender{}))
	})

	It("rejects unknown drivers", func() {
		_, err := notification.NewSender(internal.NotificationConfig{Driver: "pigeon"}, discard)
		Expect(err).To(HaveOccurred())
	})
})
