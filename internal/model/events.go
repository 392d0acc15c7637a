package model

import "time"

// Event type names used for outbox rows and broker topics.
const (
	EventTypeAppointmentScheduled = "appointment_scheduled"
	EventTypeAppointmentDeleted   = "appointment_deleted"
	EventTypeAppointmentUpdated   = "appointment_updated"
)

// DomainEvent is a fact record describing a state change inside the schedule
// aggregate. Events are buffered by the aggregate and drained by the caller
// after a successful save; delivery is an external concern.
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

type baseEvent struct {
	occurredAt time.Time
}

func (e baseEvent) OccurredAt() time.Time { return e.occurredAt }

// AppointmentScheduledEvent is raised when a new appointment is added to a
// schedule.
type AppointmentScheduledEvent struct {
	baseEvent
	Appointment *Appointment
}

func NewAppointmentScheduledEvent(a *Appointment) *AppointmentScheduledEvent {
	return &AppointmentScheduledEvent{
		baseEvent:   baseEvent{occurredAt: time.Now()},
		Appointment: a,
	}
}

func (e *AppointmentScheduledEvent) EventType() string { return EventTypeAppointmentScheduled }

// AppointmentDeletedEvent is raised by the delete operation. The aggregate
// raises it even when the targeted appointment was not present; see the
// schedule documentation.
type AppointmentDeletedEvent struct {
	baseEvent
	Appointment *Appointment
}

func NewAppointmentDeletedEvent(a *Appointment) *AppointmentDeletedEvent {
	return &AppointmentDeletedEvent{
		baseEvent:   baseEvent{occurredAt: time.Now()},
		Appointment: a,
	}
}

func (e *AppointmentDeletedEvent) EventType() string { return EventTypeAppointmentDeleted }

// AppointmentUpdatedEvent is raised by the appointment field updaters.
type AppointmentUpdatedEvent struct {
	baseEvent
	Appointment *Appointment
	// Field names the updater touched, e.g. "start_time".
	Field string
}

func NewAppointmentUpdatedEvent(a *Appointment, field string) *AppointmentUpdatedEvent {
	return &AppointmentUpdatedEvent{
		baseEvent:   baseEvent{occurredAt: time.Now()},
		Appointment: a,
		Field:       field,
	}
}

func (e *AppointmentUpdatedEvent) EventType() string { return EventTypeAppointmentUpdated }
