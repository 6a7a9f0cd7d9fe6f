package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gaitbase/internal/rom/domain"
)

var ErrPatientCodeRequired = errors.New("patient code is required")

//go:generate mockgen -source=patient_service.go -destination=../../../test/unit/doubles/rom/usecases/patient_service_mock.go -package=usecases -mock_names=PatientService=MockPatientService

type PatientService interface {
	Create(ctx context.Context, identity domain.Identity) (int64, error)
	Get(ctx context.Context, patientID int64) (domain.Identity, error)
}

var _ PatientService = (*SimplePatientService)(nil)

type SimplePatientService struct {
	repository PatientRepository
}

func NewPatientService(repository PatientRepository) *SimplePatientService {
	return &SimplePatientService{repository: repository}
}

func (s *SimplePatientService) Create(ctx context.Context, identity domain.Identity) (int64, error) {
	identity.PatientCode = strings.TrimSpace(identity.PatientCode)
	if identity.PatientCode == "" {
		return 0, ErrPatientCodeRequired
	}

	id, err := s.repository.Create(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("creating patient: %w", err)
	}
	slog.Info("patient created", slog.Int64("patient_id", id), slog.String("patient_code", identity.PatientCode))
	return id, nil
}

func (s *SimplePatientService) Get(ctx context.Context, patientID int64) (domain.Identity, error) {
	return s.repository.Get(ctx, patientID)
}
