package usecases_test

import (
	"context"
	"errors"

	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/report"
	"gaitbase/internal/rom/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReportService", func() {
	It("should refuse a template naming an unknown field", func() {
		tpl := report.NewTemplate("broken", report.MustText("Paino: {Paino}, pituus: {Pituus}\n"))

		_, err := usecases.NewReportService(testFields(), tpl, nil)

		var unknown *domain.UnknownFieldError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(unknown.Field).To(Equal("Pituus"))
	})

	It("should render with or without units and apply replacements", func() {
		tpl := report.NewTemplate("short",
			report.MustText("Potilas: {TiedotID}\n"),
			report.MustText("Paino: {Paino}\n"),
			report.MustText("Confusion: {Confusion}\n"),
		)
		service, err := usecases.NewReportService(testFields(), tpl, map[string]string{"Kyllä": "positiivinen"})
		Expect(err).NotTo(HaveOccurred())
		snapshot := domain.NewSnapshot(
			domain.Record{"Paino": domain.Number(70), "Confusion": domain.Text("Kyllä")},
			map[string]string{"Paino": " kg"},
			nil,
			domain.Identity{PatientCode: "C9"},
		)

		withUnits, err := service.Text(context.Background(), snapshot, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(withUnits).To(Equal("Potilas: C9\nPaino: 70 kg\nConfusion: positiivinen\n"))

		withoutUnits, err := service.Text(context.Background(), snapshot, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(withoutUnits).To(ContainSubstring("Paino: 70\n"))
	})
})
