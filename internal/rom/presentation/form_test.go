package presentation_test

import (
	"errors"

	"gaitbase/internal/rom/catalogue"
	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/presentation"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const formCatalogue = `
labels: {not_measured: Ei mitattu, yes: Kyllä, no: Ei, not_applicable: Ei mahdollinen}
weight_field: Paino
fields:
  - {name: Nimi, kind: text}
  - {name: Paino, kind: numeric, suffix: " kg", minimum: 0}
  - {name: Dorsif, kind: dual_check_numeric, suffix: "°", minimum: -90}
  - {name: Norm, kind: numeric, derived: {source: Dorsif}}
  - {name: MAS, kind: choice, choices: ["0", "1", "1+"]}
  - {name: Confusion, kind: boolean}
`

var _ = Describe("Form", func() {
	var form *presentation.Form

	BeforeEach(func() {
		cat, err := catalogue.Parse([]byte(formCatalogue))
		Expect(err).NotTo(HaveOccurred())
		form, err = presentation.NewForm(cat.Fields)
		Expect(err).NotTo(HaveOccurred())
	})

	value := func(v domain.Value) domain.Input {
		return domain.Input{Value: &v}
	}

	It("should start every control at its default", func() {
		Expect(form.GetVal("Paino")).To(Equal(domain.Text("Ei mitattu")))
		Expect(form.GetVal("Confusion")).To(Equal(domain.Text("Ei")))
		Expect(form.GetVal("MAS")).To(Equal(domain.Text("Ei mitattu")))
		Expect(form.GetVal("Nimi")).To(Equal(domain.Text("")))
	})

	It("should trim text on read", func() {
		Expect(form.SetVal("Nimi", domain.Text("  Anna "))).To(Succeed())

		Expect(form.GetVal("Nimi")).To(Equal(domain.Text("Anna")))
	})

	It("should read values at or below the minimum as not measured", func() {
		Expect(form.Apply("Paino", value(domain.Number(70)))).To(Succeed())
		Expect(form.GetVal("Paino")).To(Equal(domain.Number(70)))

		Expect(form.Apply("Paino", value(domain.Number(0)))).To(Succeed())
		Expect(form.GetVal("Paino")).To(Equal(domain.Text("Ei mitattu")))
	})

	It("should reset numeric inputs", func() {
		Expect(form.Apply("Paino", value(domain.Number(70)))).To(Succeed())

		Expect(form.Apply("Paino", domain.Input{Reset: true})).To(Succeed())

		Expect(form.GetVal("Paino")).To(Equal(domain.Text("Ei mitattu")))
	})

	It("should toggle the not applicable state of dual check inputs", func() {
		Expect(form.Apply("Dorsif", value(domain.Number(-10)))).To(Succeed())
		yes, no := true, false

		Expect(form.Apply("Dorsif", domain.Input{NotApplicable: &yes})).To(Succeed())
		Expect(form.GetVal("Dorsif")).To(Equal(domain.Text("Ei mahdollinen")))

		Expect(form.Apply("Dorsif", domain.Input{NotApplicable: &no})).To(Succeed())
		Expect(form.GetVal("Dorsif")).To(Equal(domain.Number(-10)))

		Expect(form.Apply("Paino", domain.Input{NotApplicable: &yes})).To(MatchError(domain.ErrInvalidValue))
	})

	It("should map checkbox states", func() {
		checked := domain.CheckChecked
		Expect(form.Apply("Confusion", domain.Input{CheckState: &checked})).To(Succeed())
		Expect(form.GetVal("Confusion")).To(Equal(domain.Text("Kyllä")))

		partial := domain.CheckPartial
		err := form.Apply("Confusion", domain.Input{CheckState: &partial})
		var invalid *domain.InvalidStateError
		Expect(errors.As(err, &invalid)).To(BeTrue())
		Expect(form.GetVal("Confusion")).To(Equal(domain.Text("Kyllä")))
	})

	It("should refuse values outside the choices", func() {
		Expect(form.Apply("MAS", value(domain.Text("1+")))).To(Succeed())

		Expect(form.Apply("MAS", value(domain.Text("5")))).To(MatchError(domain.ErrInvalidValue))
		Expect(form.GetVal("MAS")).To(Equal(domain.Text("1+")))
	})

	It("should keep derived controls read only", func() {
		err := form.Apply("Norm", value(domain.Number(1)))

		var readOnly *domain.ReadOnlyFieldError
		Expect(errors.As(err, &readOnly)).To(BeTrue())
		Expect(form.SetVal("Norm", domain.Number(1))).To(Succeed())
	})

	It("should report unknown controls", func() {
		_, err := form.GetVal("Nope")

		var unknown *domain.UnknownFieldError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(form.Has("Nope")).To(BeFalse())
		Expect(form.Has("Paino")).To(BeTrue())
	})
})
