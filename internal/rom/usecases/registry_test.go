package usecases_test

import (
	"context"
	"errors"

	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/usecases"
	mockusecases "gaitbase/test/unit/doubles/rom/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Registry", func() {
	var ctrl *gomock.Controller
	var storage *mockusecases.MockRecordStorage
	var notifier *mockusecases.MockNotifier
	var registry *usecases.Registry
	var notifications []usecases.Notification
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		storage = mockusecases.NewMockRecordStorage(ctrl)
		notifier = mockusecases.NewMockNotifier(ctrl)
		notifications = nil
		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, n usecases.Notification) { notifications = append(notifications, n) }).
			AnyTimes()

		registry = usecases.NewRegistry(storage, notifier)
		Expect(registry.RegisterAll(testFields().Fields)).To(Succeed())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("Register", func() {
		It("should start every field at its normalized default", func() {
			Expect(registry.Record()).To(Equal(domain.Record{
				"TiedotPvm": domain.Text(""),
				"Paino":     domain.Text(notMeasured),
				"Voima":     domain.Text(notMeasured),
				"VoimaNorm": domain.Text(notMeasured),
				"Confusion": domain.Text("Ei"),
				"Kommentti": domain.Text(""),
			}))
			Expect(registry.NModified()).To(BeZero())
		})

		It("should refuse a duplicate field", func() {
			err := registry.Register(domain.Field{Name: "Paino", Kind: domain.KindNumeric})

			var configErr *domain.ConfigurationError
			Expect(errors.As(err, &configErr)).To(BeTrue())
		})

		It("should refuse a derived field with an unregistered source", func() {
			err := registry.Register(domain.Field{
				Name:    "Orpo",
				Kind:    domain.KindNumeric,
				Derived: &domain.Derivation{Source: "Puuttuu", Normalizer: "Paino"},
			})

			Expect(err).To(MatchError(ContainSubstring("unregistered field")))
		})

		It("should refuse a derived field fed by another derived field", func() {
			err := registry.Register(domain.Field{
				Name:    "Tupla",
				Kind:    domain.KindNumeric,
				Derived: &domain.Derivation{Source: "VoimaNorm", Normalizer: "Paino"},
			})

			Expect(err).To(MatchError(ContainSubstring("depends on derived field")))
		})

		It("should refuse a choice field that does not offer its sentinel", func() {
			err := registry.Register(domain.Field{
				Name:     "MAS",
				Kind:     domain.KindChoice,
				Sentinel: domain.Text(notMeasured),
				Choices:  []string{"0", "1"},
			})

			Expect(err).To(MatchError(ContainSubstring("does not offer its sentinel")))
		})
	})

	Context("Set", func() {
		It("should write only the set field while the derived field stays unmeasured", func() {
			storage.EXPECT().Update(gomock.Any(), []string{"Voima"}, []domain.Value{domain.Number(100)}).Return(nil)

			update, err := registry.Set(ctx, "Voima", domain.Number(100))

			Expect(err).NotTo(HaveOccurred())
			Expect(update.Changed).To(Equal(map[string]domain.Value{"Voima": domain.Number(100)}))
			Expect(update.Failed()).To(BeFalse())
			Expect(notifications).To(ContainElement(HaveField("Kind", usecases.NotificationChanged)))
		})

		It("should recompute and write the derived field one column at a time", func() {
			gomock.InOrder(
				storage.EXPECT().Update(gomock.Any(), []string{"Paino"}, []domain.Value{domain.Number(50)}).Return(nil),
				storage.EXPECT().Update(gomock.Any(), []string{"Voima"}, []domain.Value{domain.Number(100)}).Return(nil),
				storage.EXPECT().Update(gomock.Any(), []string{"VoimaNorm"}, []domain.Value{domain.Number(2)}).Return(nil),
			)

			_, err := registry.Set(ctx, "Paino", domain.Number(50))
			Expect(err).NotTo(HaveOccurred())
			update, err := registry.Set(ctx, "Voima", domain.Number(100))
			Expect(err).NotTo(HaveOccurred())

			Expect(update.Changed).To(HaveKeyWithValue("VoimaNorm", domain.Number(2)))
			Expect(registry.Units()).To(HaveKeyWithValue("VoimaNorm", " Nm/kg"))
		})

		It("should store values at or below the minimum as not measured", func() {
			storage.EXPECT().Update(gomock.Any(), []string{"Paino"}, []domain.Value{domain.Text(notMeasured)}).Return(nil)

			update, err := registry.Set(ctx, "Paino", domain.Number(0))

			Expect(err).NotTo(HaveOccurred())
			Expect(update.Changed["Paino"]).To(Equal(domain.Text(notMeasured)))
			Expect(registry.Units()["Paino"]).To(BeEmpty())
		})

		It("should keep the new value in memory when the write fails", func() {
			storage.EXPECT().Update(gomock.Any(), []string{"Paino"}, gomock.Any()).Return(errors.New("database is locked"))

			update, err := registry.Set(ctx, "Paino", domain.Number(70))

			Expect(err).NotTo(HaveOccurred())
			Expect(update.Failed()).To(BeTrue())
			Expect(update.Failures[0].Fields).To(Equal([]string{"Paino"}))
			Expect(update.Failures[0].Error()).To(ContainSubstring(domain.StorageGuidance))
			Expect(registry.Get("Paino")).To(Equal(domain.Number(70)))
			Expect(notifications).To(ContainElement(And(
				HaveField("Kind", usecases.NotificationWarning),
				HaveField("Message", ContainSubstring("database is locked")),
			)))
		})

		It("should refuse derived fields", func() {
			_, err := registry.Set(ctx, "VoimaNorm", domain.Number(1))

			var readOnly *domain.ReadOnlyFieldError
			Expect(errors.As(err, &readOnly)).To(BeTrue())
		})

		It("should refuse unknown fields", func() {
			_, err := registry.Set(ctx, "Puuttuu", domain.Number(1))

			var unknown *domain.UnknownFieldError
			Expect(errors.As(err, &unknown)).To(BeTrue())
		})

		It("should store values as given without coercing them", func() {
			storage.EXPECT().Update(gomock.Any(), []string{"Paino"}, []domain.Value{domain.Text("12")}).Return(nil)

			_, err := registry.Set(ctx, "Paino", domain.Text("12"))

			Expect(err).NotTo(HaveOccurred())
			Expect(registry.Get("Paino")).To(Equal(domain.Text("12")))
		})

		It("should return the derived field to not measured when a source does", func() {
			storage.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			_, err := registry.Set(ctx, "Paino", domain.Number(50))
			Expect(err).NotTo(HaveOccurred())
			_, err = registry.Set(ctx, "Voima", domain.Number(100))
			Expect(err).NotTo(HaveOccurred())
			Expect(registry.Get("VoimaNorm")).To(Equal(domain.Number(2)))

			update, err := registry.Set(ctx, "Paino", domain.Text(notMeasured))

			Expect(err).NotTo(HaveOccurred())
			Expect(update.Changed).To(HaveKeyWithValue("VoimaNorm", domain.Text(notMeasured)))
			Expect(registry.Get("VoimaNorm")).To(Equal(domain.Text(notMeasured)))
		})
	})

	Context("Load", func() {
		var mismatch domain.KeyMismatch

		BeforeEach(func() {
			mismatch = registry.Load(ctx, domain.Row{
				"TiedotPvm": domain.Null,
				"Paino":     domain.Number(80),
				"Voima":     domain.Number(160),
				"Vanha":     domain.Text("x"),
			})
		})

		It("should take stored values and recompute derived ones", func() {
			Expect(registry.Get("Paino")).To(Equal(domain.Number(80)))
			Expect(registry.Get("VoimaNorm")).To(Equal(domain.Number(2)))
		})

		It("should keep defaults for null columns", func() {
			Expect(registry.Get("TiedotPvm")).To(Equal(domain.Text("")))
		})

		It("should reset edited fields whose column is null or missing", func() {
			storage.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			_, err := registry.Set(ctx, "Kommentti", domain.Text("edited"))
			Expect(err).NotTo(HaveOccurred())
			_, err = registry.Set(ctx, "Confusion", domain.Text("Kyllä"))
			Expect(err).NotTo(HaveOccurred())

			registry.Load(ctx, domain.Row{"Kommentti": domain.Null})

			Expect(registry.Get("Kommentti")).To(Equal(domain.Text("")))
			Expect(registry.Get("Confusion")).To(Equal(domain.Text("Ei")))
			Expect(registry.Get("Paino")).To(Equal(domain.Text(notMeasured)))
			Expect(registry.NModified()).To(BeZero())
		})

		It("should reproduce the record when loading its own values", func() {
			storage.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			_, err := registry.Set(ctx, "Voima", domain.Number(120))
			Expect(err).NotTo(HaveOccurred())
			_, err = registry.Set(ctx, "Kommentti", domain.Text("kävely"))
			Expect(err).NotTo(HaveOccurred())
			record := registry.Record()

			fresh := usecases.NewRegistry(storage, notifier)
			Expect(fresh.RegisterAll(testFields().Fields)).To(Succeed())
			row := domain.Row{"TiedotPvm": domain.Null}
			for name, v := range record {
				if name != "TiedotPvm" {
					row[name] = v
				}
			}
			fresh.Load(ctx, row)

			Expect(fresh.Record()).To(Equal(record))
		})

		It("should report keys outside the catalogue as data loss", func() {
			Expect(mismatch.Extra).To(Equal([]string{"Vanha"}))
			Expect(mismatch.Missing).To(ContainElements("VoimaNorm", "Confusion", "Kommentti"))
			Expect(mismatch.Warning()).To(HaveOccurred())
			Expect(notifications).To(ContainElement(HaveField("Kind", usecases.NotificationWarning)))
		})

		It("should list modified and defaulted fields", func() {
			Expect(registry.Modified()).To(Equal([]string{"Paino", "Voima", "VoimaNorm"}))
			Expect(registry.Defaulted()).To(Equal([]string{"Confusion", "Kommentti", "TiedotPvm"}))
		})

		It("should snapshot values with units", func() {
			snapshot := registry.Snapshot(domain.Identity{PatientCode: "C1"})

			Expect(snapshot.Unit("Paino")).To(Equal(" kg"))
			Expect(snapshot.IsDefault("Kommentti")).To(BeTrue())
			id, ok := snapshot.Text("TiedotID")
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal("C1"))
		})
	})

	Context("with a bound presentation", func() {
		var presentation *mockusecases.MockPresentation

		BeforeEach(func() {
			presentation = mockusecases.NewMockPresentation(ctrl)
			presentation.EXPECT().Has("Kommentti").Return(false).AnyTimes()
			presentation.EXPECT().Has(gomock.Any()).Return(true).AnyTimes()
			presentation.EXPECT().GetVal("TiedotPvm").Return(domain.Text("01.03.2024"), nil).AnyTimes()
			presentation.EXPECT().GetVal("Paino").Return(domain.Number(60), nil).AnyTimes()
			presentation.EXPECT().GetVal("Voima").Return(domain.Number(120), nil).AnyTimes()
			presentation.EXPECT().GetVal("Confusion").Return(domain.Text("Kyllä"), nil).AnyTimes()

			registry = usecases.NewRegistry(storage, notifier)
			registry.Bind(presentation)
			Expect(registry.RegisterAll(testFields().Fields)).To(Succeed())
		})

		It("should take defaults from the presentation", func() {
			Expect(registry.Defaults()).To(HaveKeyWithValue("Paino", domain.Number(60)))
			Expect(registry.Defaults()).To(HaveKeyWithValue("VoimaNorm", domain.Number(2)))
			Expect(registry.NModified()).To(BeZero())
		})

		It("should push set values back to the presentation", func() {
			presentation.EXPECT().SetVal("Paino", domain.Number(40)).Return(nil)
			presentation.EXPECT().SetVal("VoimaNorm", domain.Number(3)).Return(nil)
			storage.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

			update, err := registry.Set(ctx, "Paino", domain.Number(40))

			Expect(err).NotTo(HaveOccurred())
			Expect(update.Changed).To(HaveLen(2))
		})

		It("should warn about fields the presentation lacks when reading everything", func() {
			err := registry.ReadAll()

			var dataLoss *domain.DataLossWarning
			Expect(errors.As(err, &dataLoss)).To(BeTrue())
			Expect(dataLoss.Keys).To(Equal([]string{"Kommentti"}))
			Expect(domain.IsFatal(err)).To(BeFalse())
		})
	})
})
