package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk-api/pkg/errors"
)

// Appointment is a scheduled slot owned by exactly one Schedule. All state
// changes go through the updater methods so the entity can buffer its own
// AppointmentUpdated events; the buffer is drained through the owning
// schedule at save time.
//
// IsPotentiallyConflicting is recomputed by the owning schedule after every
// mutation and must never be set by callers.
type Appointment struct {
	ID                       uuid.UUID
	AppointmentTypeID        int
	ScheduleID               uuid.UUID
	ClinicID                 int
	DoctorID                 int
	PatientID                int
	RoomID                   int
	TimeRange                TimeRange
	Title                    string
	IsPotentiallyConflicting bool

	events []DomainEvent
}

func NewAppointment(
	id uuid.UUID,
	appointmentTypeID int,
	scheduleID uuid.UUID,
	clinicID int,
	doctorID int,
	patientID int,
	roomID int,
	timeRange TimeRange,
	title string,
) (*Appointment, error) {
	if id == uuid.Nil {
		return nil, errors.InvalidArgument("appointment id is required", nil)
	}
	if scheduleID == uuid.Nil {
		return nil, errors.InvalidArgument("schedule id is required", nil)
	}
	if appointmentTypeID <= 0 {
		return nil, errors.InvalidArgument("appointment type id must be positive", nil)
	}
	if clinicID <= 0 {
		return nil, errors.InvalidArgument("clinic id must be positive", nil)
	}
	if doctorID <= 0 {
		return nil, errors.InvalidArgument("doctor id must be positive", nil)
	}
	if patientID <= 0 {
		return nil, errors.InvalidArgument("patient id must be positive", nil)
	}
	if roomID <= 0 {
		return nil, errors.InvalidArgument("room id must be positive", nil)
	}
	if timeRange.IsZero() {
		return nil, errors.InvalidArgument("time range is required", nil)
	}

	return &Appointment{
		ID:                id,
		AppointmentTypeID: appointmentTypeID,
		ScheduleID:        scheduleID,
		ClinicID:          clinicID,
		DoctorID:          doctorID,
		PatientID:         patientID,
		RoomID:            roomID,
		TimeRange:         timeRange,
		Title:             title,
	}, nil
}

// UpdateStartTime moves the appointment to a new start, preserving the
// current duration. Passing the current start is a no-op and buffers no
// event; the other updaters set and raise unconditionally.
func (a *Appointment) UpdateStartTime(newStart time.Time) error {
	if newStart.IsZero() {
		return errors.InvalidArgument("start time is required", nil)
	}
	if newStart.Equal(a.TimeRange.Start()) {
		return nil
	}

	newRange, err := NewTimeRangeFromDuration(newStart, a.TimeRange.Duration())
	if err != nil {
		return err
	}
	a.TimeRange = newRange
	a.addEvent(NewAppointmentUpdatedEvent(a, "start_time"))
	return nil
}

// UpdateAppointmentType changes the type and re-derives the end time from the
// type's default duration, keeping the current start.
func (a *Appointment) UpdateAppointmentType(appointmentType *AppointmentType) error {
	if appointmentType == nil {
		return errors.InvalidArgument("appointment type is required", nil)
	}

	newRange, err := NewTimeRangeFromDuration(
		a.TimeRange.Start(),
		time.Duration(appointmentType.DurationMinutes)*time.Minute,
	)
	if err != nil {
		return err
	}
	a.AppointmentTypeID = appointmentType.ID
	a.TimeRange = newRange
	a.addEvent(NewAppointmentUpdatedEvent(a, "appointment_type"))
	return nil
}

func (a *Appointment) UpdateRoom(roomID int) error {
	if roomID <= 0 {
		return errors.InvalidArgument("room id must be positive", nil)
	}
	a.RoomID = roomID
	a.addEvent(NewAppointmentUpdatedEvent(a, "room"))
	return nil
}

func (a *Appointment) UpdateDoctor(doctorID int) error {
	if doctorID <= 0 {
		return errors.InvalidArgument("doctor id must be positive", nil)
	}
	a.DoctorID = doctorID
	a.addEvent(NewAppointmentUpdatedEvent(a, "doctor"))
	return nil
}

func (a *Appointment) UpdateTitle(title string) {
	a.Title = title
	a.addEvent(NewAppointmentUpdatedEvent(a, "title"))
}

func (a *Appointment) addEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns the buffered update events in the order they occurred.
func (a *Appointment) Events() []DomainEvent {
	return a.events
}

func (a *Appointment) ClearEvents() {
	a.events = nil
}
