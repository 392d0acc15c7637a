package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk-api/pkg/errors"
)

// Schedule is the aggregate root for one clinic's appointments over a date
// range. Appointments are mutated only through the schedule so that every
// operation leaves the whole set with up-to-date conflict flags.
//
// The aggregate is not safe for concurrent use; the caller owns it for the
// duration of one load-mutate-save cycle.
type Schedule struct {
	ID        uuid.UUID
	ClinicID  int
	DateRange TimeRange

	appointments []*Appointment
	events       []DomainEvent
}

func NewSchedule(id uuid.UUID, dateRange TimeRange, clinicID int) (*Schedule, error) {
	if id == uuid.Nil {
		return nil, errors.InvalidArgument("schedule id is required", nil)
	}
	if clinicID <= 0 {
		return nil, errors.InvalidArgument("clinic id must be positive", nil)
	}

	return &Schedule{
		ID:        id,
		ClinicID:  clinicID,
		DateRange: dateRange,
	}, nil
}

// RehydrateSchedule rebuilds an aggregate from persisted state. Conflict
// flags are recomputed so the loaded set honors the marking invariant even
// when rows were written by an older build.
func RehydrateSchedule(id uuid.UUID, clinicID int, dateRange TimeRange, appointments []*Appointment) *Schedule {
	s := &Schedule{
		ID:           id,
		ClinicID:     clinicID,
		DateRange:    dateRange,
		appointments: appointments,
	}
	s.markConflictingAppointments()
	return s
}

// Appointments returns the appointment list in insertion order. Callers must
// treat it as read-only.
func (s *Schedule) Appointments() []*Appointment {
	return s.appointments
}

// AddNewAppointment appends an appointment, refreshes conflict flags over the
// whole set and raises an AppointmentScheduled event.
func (s *Schedule) AddNewAppointment(appointment *Appointment) error {
	if appointment == nil {
		return errors.InvalidArgument("appointment is required", nil)
	}
	if appointment.ID == uuid.Nil {
		return errors.InvalidArgument("appointment id is required", nil)
	}
	if err := s.guardDuplicateAppointment(appointment.ID); err != nil {
		return err
	}

	s.appointments = append(s.appointments, appointment)

	s.markConflictingAppointments()

	s.events = append(s.events, NewAppointmentScheduledEvent(appointment))
	return nil
}

// DeleteAppointment removes the appointment with the given identity if
// present. The removal is idempotent: a missing appointment is not an error,
// and conflict flags are refreshed and an AppointmentDeleted event raised
// either way.
func (s *Schedule) DeleteAppointment(appointment *Appointment) error {
	if appointment == nil {
		return errors.InvalidArgument("appointment is required", nil)
	}

	for i, existing := range s.appointments {
		if existing.ID == appointment.ID {
			s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
			break
		}
	}

	s.markConflictingAppointments()

	s.events = append(s.events, NewAppointmentDeletedEvent(appointment))
	return nil
}

// UpdateAppointment applies the field updates in a fixed order: appointment
// type, start time, room, doctor, title. The order matters because the start
// time update preserves the duration already derived from the new type. All
// arguments are validated before anything is touched so a failed call leaves
// the aggregate unchanged. Returns the mutated appointment.
func (s *Schedule) UpdateAppointment(
	appointmentID uuid.UUID,
	appointmentType *AppointmentType,
	start time.Time,
	roomID int,
	doctorID int,
	title string,
) (*Appointment, error) {
	if appointmentID == uuid.Nil {
		return nil, errors.InvalidArgument("appointment id is required", nil)
	}
	appointment, err := s.guardExistingAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointmentType == nil {
		return nil, errors.InvalidArgument("appointment type is required", nil)
	}
	if appointmentType.DurationMinutes <= 0 {
		return nil, errors.InvalidArgument("appointment type duration must be positive", nil)
	}
	if start.IsZero() {
		return nil, errors.InvalidArgument("start time is required", nil)
	}
	if roomID <= 0 {
		return nil, errors.InvalidArgument("room id must be positive", nil)
	}
	if doctorID <= 0 {
		return nil, errors.InvalidArgument("doctor id must be positive", nil)
	}

	if err := appointment.UpdateAppointmentType(appointmentType); err != nil {
		return nil, err
	}
	if err := appointment.UpdateStartTime(start); err != nil {
		return nil, err
	}
	if err := appointment.UpdateRoom(roomID); err != nil {
		return nil, err
	}
	if err := appointment.UpdateDoctor(doctorID); err != nil {
		return nil, err
	}
	appointment.UpdateTitle(title)

	s.markConflictingAppointments()

	return appointment, nil
}

// markConflictingAppointments recomputes IsPotentiallyConflicting for every
// appointment from scratch. Two appointments conflict when they share a
// patient, room or doctor and their time ranges overlap. The pass is O(n²)
// per mutation, which is fine for one clinic's bounded schedule window; it
// always runs in full because a removal or an unrelated field change can
// clear flags on appointments the triggering operation never touched.
func (s *Schedule) markConflictingAppointments() {
	for _, appointment := range s.appointments {
		conflicting := false
		for _, other := range s.appointments {
			if other == appointment {
				continue
			}
			sharesResource := other.PatientID == appointment.PatientID ||
				other.RoomID == appointment.RoomID ||
				other.DoctorID == appointment.DoctorID
			if sharesResource && other.TimeRange.Overlaps(appointment.TimeRange) {
				other.IsPotentiallyConflicting = true
				conflicting = true
			}
		}
		appointment.IsPotentiallyConflicting = conflicting
	}
}

func (s *Schedule) guardDuplicateAppointment(id uuid.UUID) error {
	for _, existing := range s.appointments {
		if existing.ID == id {
			return errors.DuplicateAppointment(id)
		}
	}
	return nil
}

func (s *Schedule) guardExistingAppointment(id uuid.UUID) (*Appointment, error) {
	for _, existing := range s.appointments {
		if existing.ID == id {
			return existing, nil
		}
	}
	return nil, errors.AppointmentNotFound(id)
}

// Events returns pending domain events in insertion order: the aggregate's
// own Scheduled and Deleted events followed by each appointment's buffered
// update events.
func (s *Schedule) Events() []DomainEvent {
	events := make([]DomainEvent, 0, len(s.events))
	events = append(events, s.events...)
	for _, appointment := range s.appointments {
		events = append(events, appointment.Events()...)
	}
	return events
}

// ClearEvents empties the aggregate's queue and every appointment buffer.
// The caller drains after each persisted mutation.
func (s *Schedule) ClearEvents() {
	s.events = nil
	for _, appointment := range s.appointments {
		appointment.ClearEvents()
	}
}
