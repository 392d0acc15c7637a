package model

import (
	"time"

	"github.com/google/uuid"
)

// BookAppointmentRequest creates a new appointment on a schedule. The
// schedule id comes from the URL path; the end time is derived from the
// appointment type's default duration.
type BookAppointmentRequest struct {
	ScheduleID        uuid.UUID `json:"-"`
	AppointmentTypeID int       `json:"appointment_type_id" binding:"required,gt=0"`
	ClinicID          int       `json:"clinic_id" binding:"required,gt=0"`
	DoctorID          int       `json:"doctor_id" binding:"required,gt=0"`
	PatientID         int       `json:"patient_id" binding:"required,gt=0"`
	RoomID            int       `json:"room_id" binding:"required,gt=0"`
	Start             time.Time `json:"start" binding:"required"`
	Title             string    `json:"title" binding:"max=200"`
}

// RescheduleAppointmentRequest carries the full set of updatable fields; the
// aggregate applies them in a fixed order.
type RescheduleAppointmentRequest struct {
	AppointmentTypeID int       `json:"appointment_type_id" binding:"required,gt=0"`
	Start             time.Time `json:"start" binding:"required"`
	RoomID            int       `json:"room_id" binding:"required,gt=0"`
	DoctorID          int       `json:"doctor_id" binding:"required,gt=0"`
	Title             string    `json:"title" binding:"max=200"`
}

// AppointmentResponse is the wire shape of one appointment.
type AppointmentResponse struct {
	ID                       uuid.UUID `json:"id"`
	ScheduleID               uuid.UUID `json:"schedule_id"`
	ClinicID                 int       `json:"clinic_id"`
	AppointmentTypeID        int       `json:"appointment_type_id"`
	DoctorID                 int       `json:"doctor_id"`
	PatientID                int       `json:"patient_id"`
	RoomID                   int       `json:"room_id"`
	Start                    time.Time `json:"start"`
	End                      time.Time `json:"end"`
	Title                    string    `json:"title"`
	IsPotentiallyConflicting bool      `json:"is_potentially_conflicting"`
}

func NewAppointmentResponse(a *Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                       a.ID,
		ScheduleID:               a.ScheduleID,
		ClinicID:                 a.ClinicID,
		AppointmentTypeID:        a.AppointmentTypeID,
		DoctorID:                 a.DoctorID,
		PatientID:                a.PatientID,
		RoomID:                   a.RoomID,
		Start:                    a.TimeRange.Start(),
		End:                      a.TimeRange.End(),
		Title:                    a.Title,
		IsPotentiallyConflicting: a.IsPotentiallyConflicting,
	}
}

// ScheduleResponse is the wire shape of a schedule with its appointments.
type ScheduleResponse struct {
	ID           uuid.UUID             `json:"id"`
	ClinicID     int                   `json:"clinic_id"`
	Start        time.Time             `json:"start"`
	End          time.Time             `json:"end"`
	Appointments []AppointmentResponse `json:"appointments"`
}

func NewScheduleResponse(s *Schedule) ScheduleResponse {
	appointments := make([]AppointmentResponse, 0, len(s.Appointments()))
	for _, appointment := range s.Appointments() {
		appointments = append(appointments, NewAppointmentResponse(appointment))
	}
	return ScheduleResponse{
		ID:           s.ID,
		ClinicID:     s.ClinicID,
		Start:        s.DateRange.Start(),
		End:          s.DateRange.End(),
		Appointments: appointments,
	}
}
