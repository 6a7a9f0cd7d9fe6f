package persistence_test

import (
	"context"
	"time"

	"gaitbase/internal/infra/cache"
	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/persistence"
	"gaitbase/internal/rom/usecases"
	mockusecases "gaitbase/test/unit/doubles/rom/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("CachedPatientRepository", func() {
	var (
		ctx        context.Context
		ctrl       *gomock.Controller
		inner      *mockusecases.MockPatientRepository
		store      *cache.RistrettoCache
		repository *persistence.CachedPatientRepository
		identity   domain.Identity
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		inner = mockusecases.NewMockPatientRepository(ctrl)

		var err error
		store, err = cache.New(nil)
		Expect(err).NotTo(HaveOccurred())
		repository = persistence.NewCachedPatientRepository(inner, store, time.Minute)
		identity = domain.Identity{PatientCode: "C1234", FirstName: "Maija", LastName: "Meikäläinen"}
	})

	AfterEach(func() {
		store.Close()
	})

	It("hits the database once per patient", func() {
		inner.EXPECT().Get(gomock.Any(), int64(7)).Return(identity, nil).Times(1)

		Expect(repository.Get(ctx, 7)).To(Equal(identity))
		Expect(repository.Get(ctx, 7)).To(Equal(identity))
	})

	It("serves newly created patients from the cache", func() {
		inner.EXPECT().Create(gomock.Any(), identity).Return(int64(3), nil)

		id, err := repository.Create(ctx, identity)
		Expect(err).NotTo(HaveOccurred())
		Expect(repository.Get(ctx, id)).To(Equal(identity))
	})

	It("passes lookup failures through uncached", func() {
		inner.EXPECT().Get(gomock.Any(), int64(9)).Return(domain.Identity{}, usecases.ErrPatientNotFound).Times(2)

		_, err := repository.Get(ctx, 9)
		Expect(err).To(MatchError(usecases.ErrPatientNotFound))
		_, err = repository.Get(ctx, 9)
		Expect(err).To(MatchError(usecases.ErrPatientNotFound))
	})
})
