package catalog

import (
	"context"
	"fmt"

	"github.com/frontdesk/frontdesk-api/internal/model"
	"github.com/frontdesk/frontdesk-api/internal/repository"
)

// Service serves the read models synced from the clinic management context:
// clients, patients, doctors, rooms and appointment types. All lookups are
// read-only; the scheduling aggregate never goes through here.
type Service struct {
	clientRepo  repository.ClientRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	roomRepo    repository.RoomRepository
	typeRepo    repository.AppointmentTypeRepository
}

func NewService(
	clientRepo repository.ClientRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	roomRepo repository.RoomRepository,
	typeRepo repository.AppointmentTypeRepository,
) *Service {
	return &Service{
		clientRepo:  clientRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		roomRepo:    roomRepo,
		typeRepo:    typeRepo,
	}
}

func (s *Service) GetClient(ctx context.Context, id int) (*model.Client, error) {
	client, err := s.clientRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *Service) ListClients(ctx context.Context) ([]*model.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *Service) ListClientPatients(ctx context.Context, clientID int) ([]*model.Patient, error) {
	patients, err := s.patientRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.doctorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Service) ListAppointmentTypes(ctx context.Context) ([]*model.AppointmentType, error) {
	appointmentTypes, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment types: %w", err)
	}
	return appointmentTypes, nil
}
