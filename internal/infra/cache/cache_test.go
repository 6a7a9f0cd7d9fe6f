package cache_test

import (
	"context"

	"gaitbase/internal/infra/cache"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RistrettoCache", func() {
	var (
		store *cache.RistrettoCache
		ctx   context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		store, err = cache.New(nil)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		store.Close()
	})

	ginkgo.It("reads back what was set", func() {
		gomega.Expect(store.Set(ctx, "patient:1", []byte("payload"), 0)).To(gomega.BeTrue())

		value, found := store.Get(ctx, "patient:1")
		gomega.Expect(found).To(gomega.BeTrue())
		gomega.Expect(value).To(gomega.Equal([]byte("payload")))
	})

	ginkgo.It("misses unknown keys", func() {
		_, found := store.Get(ctx, "patient:2")
		gomega.Expect(found).To(gomega.BeFalse())
	})

	ginkgo.It("forgets deleted keys", func() {
		store.Set(ctx, "patient:3", []byte("payload"), 0)
		store.Delete(ctx, "patient:3")

		_, found := store.Get(ctx, "patient:3")
		gomega.Expect(found).To(gomega.BeFalse())
	})

	ginkgo.When("the context is cancelled", func() {
		ginkgo.It("neither stores nor reads", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			gomega.Expect(store.Set(cancelled, "patient:4", []byte("payload"), 0)).To(gomega.BeFalse())
			_, found := store.Get(ctx, "patient:4")
			gomega.Expect(found).To(gomega.BeFalse())
		})
	})
})
