package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/frontdesk/frontdesk-api/internal/model"
	"github.com/frontdesk/frontdesk-api/internal/repository"
	"github.com/frontdesk/frontdesk-api/pkg/errors"
)

type scheduleRepository struct {
	BaseRepository
}

func NewScheduleRepository(base BaseRepository) repository.ScheduleRepository {
	return &scheduleRepository{base}
}

type scheduleRow struct {
	ID        uuid.UUID `db:"id"`
	ClinicID  int       `db:"clinic_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
}

type appointmentRow struct {
	ID                uuid.UUID `db:"id"`
	ScheduleID        uuid.UUID `db:"schedule_id"`
	ClinicID          int       `db:"clinic_id"`
	AppointmentTypeID int       `db:"appointment_type_id"`
	DoctorID          int       `db:"doctor_id"`
	PatientID         int       `db:"patient_id"`
	RoomID            int       `db:"room_id"`
	StartTime         time.Time `db:"start_time"`
	EndTime           time.Time `db:"end_time"`
	Title             string    `db:"title"`
	Conflicting       bool      `db:"is_potentially_conflicting"`
	Position          int       `db:"position"`
}

func (r *scheduleRepository) GetWithAppointments(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	query := `
		SELECT id, clinic_id, start_time, end_time
		FROM schedules
		WHERE id = $1
	`
	var row scheduleRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("schedule", err)
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return r.loadAggregate(ctx, row)
}

func (r *scheduleRepository) GetByClinicAndDate(ctx context.Context, clinicID int, date time.Time) (*model.Schedule, error) {
	query := `
		SELECT id, clinic_id, start_time, end_time
		FROM schedules
		WHERE clinic_id = $1
		AND start_time <= $2 AND end_time > $2
		ORDER BY start_time ASC
		LIMIT 1
	`
	var row scheduleRow
	if err := r.db.GetContext(ctx, &row, query, clinicID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("schedule", err)
		}
		return nil, fmt.Errorf("failed to get schedule for clinic %d: %w", clinicID, err)
	}

	return r.loadAggregate(ctx, row)
}

func (r *scheduleRepository) loadAggregate(ctx context.Context, row scheduleRow) (*model.Schedule, error) {
	query := `
		SELECT id, schedule_id, clinic_id, appointment_type_id,
			   doctor_id, patient_id, room_id,
			   start_time, end_time, title, is_potentially_conflicting, position
		FROM appointments
		WHERE schedule_id = $1
		ORDER BY position ASC
	`
	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, row.ID); err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	appointments := make([]*model.Appointment, 0, len(rows))
	for _, ar := range rows {
		timeRange, err := model.NewTimeRange(ar.StartTime, ar.EndTime)
		if err != nil {
			return nil, fmt.Errorf("corrupt appointment row %s: %w", ar.ID, err)
		}
		appointment, err := model.NewAppointment(
			ar.ID, ar.AppointmentTypeID, ar.ScheduleID, ar.ClinicID,
			ar.DoctorID, ar.PatientID, ar.RoomID, timeRange, ar.Title,
		)
		if err != nil {
			return nil, fmt.Errorf("corrupt appointment row %s: %w", ar.ID, err)
		}
		appointments = append(appointments, appointment)
	}

	dateRange, err := model.NewTimeRange(row.StartTime, row.EndTime)
	if err != nil {
		return nil, fmt.Errorf("corrupt schedule row %s: %w", row.ID, err)
	}

	return model.RehydrateSchedule(row.ID, row.ClinicID, dateRange, appointments), nil
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (id, clinic_id, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.ClinicID,
		schedule.DateRange.Start(),
		schedule.DateRange.End(),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// Save persists the full aggregate state: the schedule row is updated, the
// appointment set is rewritten and every pending domain event becomes an
// outbox row, all inside one transaction. The event queue is cleared only
// after the commit succeeds.
func (r *scheduleRepository) Save(ctx context.Context, schedule *model.Schedule) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		updateQuery := `
			UPDATE schedules
			SET clinic_id = $1, start_time = $2, end_time = $3, updated_at = $4
			WHERE id = $5
		`
		result, err := tx.ExecContext(ctx, updateQuery,
			schedule.ClinicID,
			schedule.DateRange.Start(),
			schedule.DateRange.End(),
			time.Now(),
			schedule.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update schedule: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return errors.NotFound("schedule", nil)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE schedule_id = $1`, schedule.ID); err != nil {
			return fmt.Errorf("failed to clear appointments: %w", err)
		}

		insertQuery := `
			INSERT INTO appointments (
				id, schedule_id, clinic_id, appointment_type_id,
				doctor_id, patient_id, room_id,
				start_time, end_time, title, is_potentially_conflicting, position
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		for position, appointment := range schedule.Appointments() {
			_, err := tx.ExecContext(ctx, insertQuery,
				appointment.ID,
				appointment.ScheduleID,
				appointment.ClinicID,
				appointment.AppointmentTypeID,
				appointment.DoctorID,
				appointment.PatientID,
				appointment.RoomID,
				appointment.TimeRange.Start(),
				appointment.TimeRange.End(),
				appointment.Title,
				appointment.IsPotentiallyConflicting,
				position,
			)
			if err != nil {
				return fmt.Errorf("failed to insert appointment %s: %w", appointment.ID, err)
			}
		}

		for _, event := range schedule.Events() {
			outboxEvent, err := outboxEventFromDomain(event)
			if err != nil {
				return err
			}
			if err := insertOutboxEventTx(ctx, tx, outboxEvent); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	schedule.ClearEvents()
	return nil
}

func outboxEventFromDomain(event model.DomainEvent) (*model.OutboxEvent, error) {
	var appointment *model.Appointment
	switch e := event.(type) {
	case *model.AppointmentScheduledEvent:
		appointment = e.Appointment
	case *model.AppointmentDeletedEvent:
		appointment = e.Appointment
	case *model.AppointmentUpdatedEvent:
		appointment = e.Appointment
	default:
		return nil, fmt.Errorf("unknown domain event type %q", event.EventType())
	}

	payload, err := json.Marshal(model.AppointmentEventPayload{
		AppointmentID:     appointment.ID,
		ScheduleID:        appointment.ScheduleID,
		ClinicID:          appointment.ClinicID,
		AppointmentTypeID: appointment.AppointmentTypeID,
		DoctorID:          appointment.DoctorID,
		PatientID:         appointment.PatientID,
		RoomID:            appointment.RoomID,
		Start:             appointment.TimeRange.Start(),
		End:               appointment.TimeRange.End(),
		Title:             appointment.Title,
		Conflicting:       appointment.IsPotentiallyConflicting,
		OccurredAt:        event.OccurredAt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: event.EventType(),
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}, nil
}
