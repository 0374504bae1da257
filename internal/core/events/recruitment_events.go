package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeApplicationCreated       = "application.created"
	EventTypeApplicationStatusChanged = "application.status_changed"
)

type ApplicationCreatedEvent struct {
	BaseEvent
	ApplicationID int64  `json:"application_id"`
	JobID         int64  `json:"job_id"`
	JobTitle      string `json:"job_title"`
	ApplicantID   int64  `json:"applicant_id"`
}

func NewApplicationCreatedEvent(applicationID, jobID int64, jobTitle string, applicantID int64) *ApplicationCreatedEvent {
	return &ApplicationCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicationCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id": applicationID,
				"job_id":         jobID,
				"job_title":      jobTitle,
				"applicant_id":   applicantID,
			},
		},
		ApplicationID: applicationID,
		JobID:         jobID,
		JobTitle:      jobTitle,
		ApplicantID:   applicantID,
	}
}

type ApplicationStatusChangedEvent struct {
	BaseEvent
	ApplicationID  int64  `json:"application_id"`
	JobID          int64  `json:"job_id"`
	JobTitle       string `json:"job_title"`
	ApplicantID    int64  `json:"applicant_id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
	ChangedBy      int64  `json:"changed_by"`
}

func NewApplicationStatusChangedEvent(applicationID, jobID int64, jobTitle string, applicantID int64, previous, status string, changedBy int64) *ApplicationStatusChangedEvent {
	return &ApplicationStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicationStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id":  applicationID,
				"job_id":          jobID,
				"job_title":       jobTitle,
				"applicant_id":    applicantID,
				"previous_status": previous,
				"status":          status,
				"changed_by":      changedBy,
			},
		},
		ApplicationID:  applicationID,
		JobID:          jobID,
		JobTitle:       jobTitle,
		ApplicantID:    applicantID,
		PreviousStatus: previous,
		Status:         status,
		ChangedBy:      changedBy,
	}
}
