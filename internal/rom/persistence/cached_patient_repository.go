package persistence

import (
	"context"
	"strconv"
	"time"

	"gaitbase/internal/infra/cache"
	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/usecases"
)

// CachedPatientRepository reads patient identities through a cache. Patients
// are never updated, so entries only expire.
type CachedPatientRepository struct {
	repository usecases.PatientRepository
	identities *cache.Typed[domain.Identity]
}

var _ usecases.PatientRepository = (*CachedPatientRepository)(nil)

func NewCachedPatientRepository(repository usecases.PatientRepository, store cache.Cache, ttl time.Duration) *CachedPatientRepository {
	return &CachedPatientRepository{
		repository: repository,
		identities: cache.NewTyped[domain.Identity](store, ttl),
	}
}

func (r *CachedPatientRepository) Create(ctx context.Context, identity domain.Identity) (int64, error) {
	id, err := r.repository.Create(ctx, identity)
	if err != nil {
		return 0, err
	}
	r.identities.Put(ctx, patientKey(id), identity)
	return id, nil
}

func (r *CachedPatientRepository) Get(ctx context.Context, patientID int64) (domain.Identity, error) {
	return r.identities.GetOrLoad(ctx, patientKey(patientID), func(ctx context.Context) (domain.Identity, error) {
		return r.repository.Get(ctx, patientID)
	})
}

func patientKey(id int64) string {
	return "patient:" + strconv.FormatInt(id, 10)
}
