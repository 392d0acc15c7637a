package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/frontdesk/frontdesk-api/internal/model"
	"github.com/frontdesk/frontdesk-api/internal/repository"
	"github.com/frontdesk/frontdesk-api/pkg/errors"
	"github.com/frontdesk/frontdesk-api/pkg/logger"
)

const (
	appointmentTypeCacheTTL     = 5 * time.Minute
	appointmentTypeCacheCleanup = 10 * time.Minute
)

// Service orchestrates the schedule aggregate: load one schedule, run exactly
// one mutation, save it. Events buffered by the aggregate become outbox rows
// inside the save transaction, so concurrency control stays with the
// persistence layer.
type Service struct {
	scheduleRepo repository.ScheduleRepository
	typeRepo     repository.AppointmentTypeRepository
	typeCache    *gocache.Cache
	logger       *logger.Logger
}

func NewService(scheduleRepo repository.ScheduleRepository, typeRepo repository.AppointmentTypeRepository, logger *logger.Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		typeRepo:     typeRepo,
		typeCache:    gocache.New(appointmentTypeCacheTTL, appointmentTypeCacheCleanup),
		logger:       logger,
	}
}

func (s *Service) GetSchedule(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	schedule, err := s.scheduleRepo.GetWithAppointments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return schedule, nil
}

func (s *Service) GetClinicSchedule(ctx context.Context, clinicID int, date time.Time) (*model.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByClinicAndDate(ctx, clinicID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic schedule: %w", err)
	}
	return schedule, nil
}

func (s *Service) ListAppointments(ctx context.Context, scheduleID uuid.UUID) ([]*model.Appointment, error) {
	schedule, err := s.scheduleRepo.GetWithAppointments(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return schedule.Appointments(), nil
}

// BookAppointment adds a new appointment to the schedule. The appointment's
// end time comes from the appointment type's default duration.
func (s *Service) BookAppointment(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	appointmentType, err := s.getAppointmentType(ctx, req.AppointmentTypeID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetWithAppointments(ctx, req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	timeRange, err := model.NewTimeRangeFromDuration(req.Start,
		time.Duration(appointmentType.DurationMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	appointment, err := model.NewAppointment(
		uuid.New(),
		appointmentType.ID,
		schedule.ID,
		req.ClinicID,
		req.DoctorID,
		req.PatientID,
		req.RoomID,
		timeRange,
		req.Title,
	)
	if err != nil {
		return nil, err
	}

	if err := schedule.AddNewAppointment(appointment); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	s.logger.Info("appointment booked",
		"appointment_id", appointment.ID.String(),
		"schedule_id", schedule.ID.String(),
		"conflicting", appointment.IsPotentiallyConflicting)

	return appointment, nil
}

// RescheduleAppointment applies the full field update to an existing
// appointment and returns the mutated entity.
func (s *Service) RescheduleAppointment(ctx context.Context, scheduleID, appointmentID uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	appointmentType, err := s.getAppointmentType(ctx, req.AppointmentTypeID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetWithAppointments(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	appointment, err := schedule.UpdateAppointment(
		appointmentID,
		appointmentType,
		req.Start,
		req.RoomID,
		req.DoctorID,
		req.Title,
	)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	return appointment, nil
}

// CancelAppointment removes an appointment from the schedule. Removal is
// idempotent; the aggregate raises a Deleted event either way.
func (s *Service) CancelAppointment(ctx context.Context, scheduleID, appointmentID uuid.UUID) error {
	if appointmentID == uuid.Nil {
		return errors.InvalidArgument("appointment id is required", nil)
	}

	schedule, err := s.scheduleRepo.GetWithAppointments(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}

	appointment := findAppointment(schedule, appointmentID)
	if appointment == nil {
		// not on the schedule; delete still proceeds so the Deleted
		// event reaches downstream consumers
		appointment = &model.Appointment{ID: appointmentID, ScheduleID: scheduleID}
	}

	if err := schedule.DeleteAppointment(appointment); err != nil {
		return err
	}

	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	return nil
}

func findAppointment(schedule *model.Schedule, id uuid.UUID) *model.Appointment {
	for _, appointment := range schedule.Appointments() {
		if appointment.ID == id {
			return appointment
		}
	}
	return nil
}

func (s *Service) getAppointmentType(ctx context.Context, id int) (*model.AppointmentType, error) {
	cacheKey := fmt.Sprintf("appointment_type:%d", id)
	if cached, ok := s.typeCache.Get(cacheKey); ok {
		return cached.(*model.AppointmentType), nil
	}

	appointmentType, err := s.typeRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment type: %w", err)
	}

	s.typeCache.Set(cacheKey, appointmentType, gocache.DefaultExpiration)
	return appointmentType, nil
}
