package usecases

import (
	"context"
	"errors"

	"gaitbase/internal/rom/domain"
)

//go:generate mockgen -source=repository_port.go -destination=../../../test/unit/doubles/rom/usecases/repository_port_mock.go -package=usecases -mock_names=ROMRepository=MockROMRepository,PatientRepository=MockPatientRepository

var (
	ErrROMNotFound     = errors.New("rom not found")
	ErrPatientNotFound = errors.New("patient not found")
)

type ROMRepository interface {
	Create(ctx context.Context, patientID int64) (int64, error)
	Get(ctx context.Context, romID int64) (domain.ROM, error)
	FindAllIDs(ctx context.Context) ([]int64, error)
	Storage(romID int64) RecordStorage
}

type PatientRepository interface {
	Create(ctx context.Context, identity domain.Identity) (int64, error)
	Get(ctx context.Context, patientID int64) (domain.Identity, error)
}
