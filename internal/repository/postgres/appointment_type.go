package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frontdesk/frontdesk-api/internal/model"
	"github.com/frontdesk/frontdesk-api/internal/repository"
	"github.com/frontdesk/frontdesk-api/pkg/errors"
)

type appointmentTypeRepository struct {
	BaseRepository
}

func NewAppointmentTypeRepository(base BaseRepository) repository.AppointmentTypeRepository {
	return &appointmentTypeRepository{base}
}

func (r *appointmentTypeRepository) Get(ctx context.Context, id int) (*model.AppointmentType, error) {
	query := `
		SELECT id, name, code, duration_minutes
		FROM appointment_types
		WHERE id = $1
	`
	var appointmentType model.AppointmentType
	if err := r.db.GetContext(ctx, &appointmentType, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("appointment type", err)
		}
		return nil, fmt.Errorf("failed to get appointment type: %w", err)
	}
	return &appointmentType, nil
}

func (r *appointmentTypeRepository) List(ctx context.Context) ([]*model.AppointmentType, error) {
	query := `
		SELECT id, name, code, duration_minutes
		FROM appointment_types
		ORDER BY name ASC
	`
	var appointmentTypes []*model.AppointmentType
	if err := r.db.SelectContext(ctx, &appointmentTypes, query); err != nil {
		return nil, fmt.Errorf("failed to list appointment types: %w", err)
	}
	return appointmentTypes, nil
}
