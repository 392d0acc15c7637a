package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// OutboxEvent is a domain event serialized for at-least-once delivery. Rows
// are written in the same transaction as the schedule save and published to
// the broker by the outbox worker.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// AppointmentEventPayload is the wire shape written to outbox rows for
// schedule domain events.
type AppointmentEventPayload struct {
	AppointmentID     uuid.UUID `json:"appointment_id"`
	ScheduleID        uuid.UUID `json:"schedule_id"`
	ClinicID          int       `json:"clinic_id"`
	AppointmentTypeID int       `json:"appointment_type_id"`
	DoctorID          int       `json:"doctor_id"`
	PatientID         int       `json:"patient_id"`
	RoomID            int       `json:"room_id"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	Title             string    `json:"title"`
	Conflicting       bool      `json:"conflicting"`
	OccurredAt        time.Time `json:"occurred_at"`
}
