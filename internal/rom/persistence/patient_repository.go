package persistence

import (
	"context"
	"errors"
	"fmt"

	"gaitbase/internal/infra/sql"
	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/persistence/internal"
	"gaitbase/internal/rom/usecases"
)

func NewPatientRepository(orm sql.ORM) (*SimplePatientRepository, error) {
	err := orm.AutoMigrate(&internal.Patient{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimplePatientRepository{
		orm: orm,
	}, nil
}

var _ usecases.PatientRepository = (*SimplePatientRepository)(nil)

type SimplePatientRepository struct {
	orm sql.ORM
}

func (r *SimplePatientRepository) Create(ctx context.Context, identity domain.Identity) (int64, error) {
	entity := internal.FromIdentity(identity)
	if err := r.orm.WithContext(ctx).Create(&entity).Error(); err != nil {
		return 0, fmt.Errorf("creating patient in database: %w", err)
	}
	return entity.PatientID, nil
}

func (r *SimplePatientRepository) Get(ctx context.Context, patientID int64) (domain.Identity, error) {
	var entity internal.Patient
	err := r.orm.WithContext(ctx).First(&entity, "patient_id = ?", patientID).Error()
	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Identity{}, usecases.ErrPatientNotFound
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("getting patient: %w", err)
	}
	return entity.ToDomain(), nil
}
