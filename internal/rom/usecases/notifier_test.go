package usecases_test

import (
	"context"

	"gaitbase/internal/infra/async"
	"gaitbase/internal/rom/usecases"
	mockusecases "gaitbase/test/unit/doubles/rom/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Notifiers", func() {
	It("should publish notifications on the session events topic", func() {
		broker := async.NewLocalBroker()
		subscription, err := broker.Subscribe(usecases.SessionEventsTopic)
		Expect(err).NotTo(HaveOccurred())

		usecases.NewBrokerNotifier(broker).Notify(context.Background(), usecases.Notification{
			SessionID: "s1",
			Kind:      usecases.NotificationWarning,
			Message:   "database is locked",
		})

		Eventually(subscription.Receiver).Should(Receive(And(
			HaveField("Event", "warning"),
			HaveField("Value", HaveField("SessionID", "s1")),
		)))
	})

	It("should not fail without subscribers", func() {
		notifier := usecases.NewBrokerNotifier(async.NewLocalBroker())

		Expect(func() {
			notifier.Notify(context.Background(), usecases.Notification{Kind: usecases.NotificationChanged})
		}).NotTo(Panic())
	})

	It("should hand every notification to each notifier in turn", func() {
		ctrl := gomock.NewController(GinkgoT())
		first := mockusecases.NewMockNotifier(ctrl)
		second := mockusecases.NewMockNotifier(ctrl)
		n := usecases.Notification{SessionID: "s1", Kind: usecases.NotificationChanged}
		gomock.InOrder(
			first.EXPECT().Notify(gomock.Any(), n),
			second.EXPECT().Notify(gomock.Any(), n),
		)

		usecases.CompositeNotifier{first, second}.Notify(context.Background(), n)
		ctrl.Finish()
	})
})
