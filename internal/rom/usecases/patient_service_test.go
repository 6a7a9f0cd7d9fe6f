package usecases_test

import (
	"context"

	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/usecases"
	mockusecases "gaitbase/test/unit/doubles/rom/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("PatientService", func() {
	var ctrl *gomock.Controller
	var repository *mockusecases.MockPatientRepository
	var service *usecases.SimplePatientService

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repository = mockusecases.NewMockPatientRepository(ctrl)
		service = usecases.NewPatientService(repository)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("should require a patient code", func() {
		_, err := service.Create(context.Background(), domain.Identity{PatientCode: "  ", FirstName: "Anna"})

		Expect(err).To(MatchError(usecases.ErrPatientCodeRequired))
	})

	It("should store the trimmed code", func() {
		repository.EXPECT().
			Create(gomock.Any(), domain.Identity{PatientCode: "C1", FirstName: "Anna"}).
			Return(int64(4), nil)

		id, err := service.Create(context.Background(), domain.Identity{PatientCode: " C1 ", FirstName: "Anna"})

		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(4)))
	})
})
