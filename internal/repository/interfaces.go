package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk-api/internal/model"
)

// All repository interfaces in one file
type (
	// ScheduleRepository loads and saves the schedule aggregate as a unit.
	ScheduleRepository interface {
		// GetWithAppointments fetches the aggregate for the given id with
		// the full appointment list populated.
		GetWithAppointments(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
		// GetByClinicAndDate resolves the schedule covering a clinic day.
		GetByClinicAndDate(ctx context.Context, clinicID int, date time.Time) (*model.Schedule, error)
		// Save persists the full current state of the aggregate and writes
		// its pending domain events to the outbox in the same transaction.
		// The aggregate's event queue is cleared on success.
		Save(ctx context.Context, schedule *model.Schedule) error
		Create(ctx context.Context, schedule *model.Schedule) error
	}

	AppointmentTypeRepository interface {
		Get(ctx context.Context, id int) (*model.AppointmentType, error)
		List(ctx context.Context) ([]*model.AppointmentType, error)
	}

	ClientRepository interface {
		Get(ctx context.Context, id int) (*model.Client, error)
		List(ctx context.Context) ([]*model.Client, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id int) (*model.Patient, error)
		ListByClient(ctx context.Context, clientID int) ([]*model.Patient, error)
	}

	DoctorRepository interface {
		Get(ctx context.Context, id int) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	RoomRepository interface {
		List(ctx context.Context) ([]*model.Room, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		CreateTx(ctx context.Context, tx *sql.Tx, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		BeginTx(ctx context.Context) (*sql.Tx, error)
		UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
		MoveToDeadLetter(ctx context.Context, tx *sql.Tx, event *model.OutboxEvent) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
