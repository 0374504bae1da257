package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/recruitment/internal/core/events"
	"github.com/frahmantamala/recruitment/internal/user"
)

// ContactDirectory resolves where notifications for users are sent.
type ContactDirectory interface {
	Contact(ctx context.Context, id int64) (user.Contact, bool, error)
	StaffContacts(ctx context.Context) ([]user.Contact, error)
}

type Enqueuer interface {
	Enqueue(msg Message) bool
}

type EventHandler struct {
	contacts ContactDirectory
	renderer *Renderer
	queue    Enqueuer
	baseURL  string
	logger   *slog.Logger
}

func NewEventHandler(contacts ContactDirectory, renderer *Renderer, queue Enqueuer, baseURL string, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		contacts: contacts,
		renderer: renderer,
		queue:    queue,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// HandleApplicationCreated confirms receipt to the applicant and tells every staff member.
func (h *EventHandler) HandleApplicationCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ApplicationCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid event type for application created handler: %T", event)
	}

	h.logger.Info("handling application created event",
		"event_id", e.EventID(),
		"application_id", e.ApplicationID,
		"job_id", e.JobID)

	applicant, hasEmail, err := h.contacts.Contact(ctx, e.ApplicantID)
	if err != nil {
		return fmt.Errorf("resolve applicant %d: %w", e.ApplicantID, err)
	}

	data := TemplateData{
		ApplicationID: e.ApplicationID,
		JobID:         e.JobID,
		JobTitle:      e.JobTitle,
		Status:        "PENDING",
		ApplicantName: applicant.Name,
	}
	if data.ApplicantName == "" {
		data.ApplicantName = fmt.Sprintf("Applicant #%d", e.ApplicantID)
	}
	if h.baseURL != "" {
		data.Link = fmt.Sprintf("%s/jobs/%d/applicants", h.baseURL, e.JobID)
	}

	if hasEmail {
		h.send(KindApplicationReceived, applicant, data)
	} else {
		h.logger.Debug("applicant has no email, skipping confirmation", "user_id", e.ApplicantID)
	}

	staff, err := h.contacts.StaffContacts(ctx)
	if err != nil {
		return fmt.Errorf("resolve staff contacts: %w", err)
	}
	for _, c := range staff {
		h.send(KindNewApplicant, c, data)
	}
	return nil
}

// HandleApplicationStatusChanged tells the applicant about the new status.
func (h *EventHandler) HandleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ApplicationStatusChangedEvent)
	if !ok {
		return fmt.Errorf("invalid event type for status changed handler: %T", event)
	}

	h.logger.Info("handling application status changed event",
		"event_id", e.EventID(),
		"application_id", e.ApplicationID,
		"previous_status", e.PreviousStatus,
		"status", e.Status)

	applicant, hasEmail, err := h.contacts.Contact(ctx, e.ApplicantID)
	if err != nil {
		return fmt.Errorf("resolve applicant %d: %w", e.ApplicantID, err)
	}
	if !hasEmail {
		h.logger.Debug("applicant has no email, skipping status update", "user_id", e.ApplicantID)
		return nil
	}

	h.send(KindStatusChanged, applicant, TemplateData{
		ApplicationID:  e.ApplicationID,
		JobID:          e.JobID,
		JobTitle:       e.JobTitle,
		Status:         e.Status,
		PreviousStatus: e.PreviousStatus,
	})
	return nil
}

func (h *EventHandler) send(kind Kind, to user.Contact, data TemplateData) {
	data.RecipientName = to.Name
	msg, err := h.renderer.Render(kind, to.Email, to.Name, data)
	if err != nil {
		h.logger.Error("failed to render notification", "kind", kind, "user_id", to.UserID, "error", err)
		return
	}
	h.queue.Enqueue(msg)
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeApplicationCreated, h.HandleApplicationCreated)
	eventBus.Subscribe(events.EventTypeApplicationStatusChanged, h.HandleApplicationStatusChanged)

	h.logger.Info("notification event handlers registered")
}
