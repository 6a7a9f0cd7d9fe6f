package async_test

import (
	"context"
	"fmt"

	"gaitbase/internal/infra/async"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const sessionTopic async.BrokerTopicName = "session_events"

var _ = Describe("LocalBroker", func() {
	var (
		broker *async.LocalBroker
		ctx    context.Context
	)

	BeforeEach(func() {
		broker = async.NewLocalBroker()
		ctx = context.Background()
	})

	AfterEach(func() {
		broker.Stop()
	})

	It("refuses to publish to a topic nobody subscribed to", func() {
		err := broker.Publish(ctx, sessionTopic, async.BrokerMessage{Event: "field_updated"})
		Expect(err).To(MatchError(async.ErrTopicNotFound))
	})

	It("fans a message out to every subscriber", func() {
		first, err := broker.Subscribe(sessionTopic)
		Expect(err).NotTo(HaveOccurred())
		second, err := broker.Subscribe(sessionTopic)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.ID).NotTo(Equal(second.ID))

		Expect(broker.Publish(ctx, sessionTopic, async.BrokerMessage{Event: "field_updated", Value: "AntropPaino"})).To(Succeed())

		for _, subscription := range []async.Subscription{first, second} {
			var received async.BrokerMessage
			Eventually(subscription.Receiver).Should(Receive(&received))
			Expect(received.Event).To(Equal("field_updated"))
			Expect(received.Value).To(Equal("AntropPaino"))
		}
	})

	It("keeps publishing order per subscriber", func() {
		subscription, _ := broker.Subscribe(sessionTopic)
		for i := range 5 {
			Expect(broker.Publish(ctx, sessionTopic, async.BrokerMessage{Value: i})).To(Succeed())
		}

		for i := range 5 {
			var received async.BrokerMessage
			Expect(subscription.Receiver).To(Receive(&received))
			Expect(received.Value).To(Equal(i))
		}
	})

	It("attaches the publisher's span", func() {
		provider := sdktrace.NewTracerProvider()
		DeferCleanup(provider.Shutdown, context.Background())
		spanCtx, span := provider.Tracer("test").Start(ctx, "edit")
		defer span.End()

		subscription, _ := broker.Subscribe(sessionTopic)
		Expect(broker.Publish(spanCtx, sessionTopic, async.BrokerMessage{})).To(Succeed())

		var received async.BrokerMessage
		Expect(subscription.Receiver).To(Receive(&received))
		Expect(received.Span.SpanContext().SpanID()).To(Equal(span.SpanContext().SpanID()))
	})

	It("drops messages for a subscriber that stopped reading", func() {
		subscription, _ := broker.Subscribe(sessionTopic)
		for i := range 100 {
			Expect(broker.Publish(ctx, sessionTopic, async.BrokerMessage{Value: i})).To(Succeed())
		}

		Expect(subscription.Receiver).To(HaveLen(cap(subscription.Receiver)))
		var received async.BrokerMessage
		Expect(subscription.Receiver).To(Receive(&received))
		Expect(received.Value).To(Equal(0))
	})

	Context("Unsubscribe", func() {
		It("closes the receiver and stops delivery", func() {
			subscription, _ := broker.Subscribe(sessionTopic)
			Expect(broker.Unsubscribe(sessionTopic, subscription)).To(Succeed())

			Eventually(subscription.Receiver).Should(BeClosed())
			Expect(broker.Publish(ctx, sessionTopic, async.BrokerMessage{})).To(Succeed())
		})

		It("tolerates a second unsubscribe", func() {
			subscription, _ := broker.Subscribe(sessionTopic)
			Expect(broker.Unsubscribe(sessionTopic, subscription)).To(Succeed())
			Expect(broker.Unsubscribe(sessionTopic, subscription)).To(Succeed())
		})

		It("reports unknown topics and subscriptions", func() {
			subscription, _ := broker.Subscribe(sessionTopic)

			Expect(broker.Unsubscribe("other", subscription)).To(MatchError(async.ErrTopicNotFound))
			Expect(broker.Unsubscribe(sessionTopic, async.Subscription{ID: "missing"})).To(MatchError(async.ErrSubscriptorNotFound))
		})
	})

	It("closes every receiver on Stop", func() {
		var subscriptions []async.Subscription
		for i := range 3 {
			subscription, err := broker.Subscribe(async.BrokerTopicName(fmt.Sprintf("topic-%d", i)))
			Expect(err).NotTo(HaveOccurred())
			subscriptions = append(subscriptions, subscription)
		}

		broker.Stop()

		for _, subscription := range subscriptions {
			Eventually(subscription.Receiver).Should(BeClosed())
		}
	})
})
