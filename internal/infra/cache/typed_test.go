package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gaitbase/internal/infra/cache"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type person struct {
	Code string
	Name string
}

var _ = ginkgo.Describe("Typed", func() {
	var (
		store *cache.RistrettoCache
		typed *cache.Typed[person]
		ctx   context.Context
		loads atomic.Int32
	)

	load := func(context.Context) (person, error) {
		loads.Add(1)
		return person{Code: "C1234", Name: "Doe"}, nil
	}

	ginkgo.BeforeEach(func() {
		var err error
		store, err = cache.New(nil)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		typed = cache.NewTyped[person](store, time.Minute)
		ctx = context.Background()
		loads.Store(0)
	})

	ginkgo.AfterEach(func() {
		store.Close()
	})

	ginkgo.It("loads once and serves the cached value afterwards", func() {
		first, err := typed.GetOrLoad(ctx, "p:1", load)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		second, err := typed.GetOrLoad(ctx, "p:1", load)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(first).To(gomega.Equal(person{Code: "C1234", Name: "Doe"}))
		gomega.Expect(second).To(gomega.Equal(first))
		gomega.Expect(loads.Load()).To(gomega.Equal(int32(1)))
	})

	ginkgo.It("shares one load between concurrent callers", func() {
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer ginkgo.GinkgoRecover()
				_, err := typed.GetOrLoad(ctx, "p:2", load)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			}()
		}
		wg.Wait()

		gomega.Expect(loads.Load()).To(gomega.BeNumerically("<=", 8))
		gomega.Expect(loads.Load()).To(gomega.BeNumerically(">=", 1))
	})

	ginkgo.It("does not cache failed loads", func() {
		_, err := typed.GetOrLoad(ctx, "p:3", func(context.Context) (person, error) {
			return person{}, errors.New("boom")
		})
		gomega.Expect(err).To(gomega.MatchError("boom"))

		_, err = typed.GetOrLoad(ctx, "p:3", load)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(loads.Load()).To(gomega.Equal(int32(1)))
	})

	ginkgo.It("reloads after Forget", func() {
		_, _ = typed.GetOrLoad(ctx, "p:4", load)
		typed.Forget(ctx, "p:4")
		_, _ = typed.GetOrLoad(ctx, "p:4", load)

		gomega.Expect(loads.Load()).To(gomega.Equal(int32(2)))
	})

	ginkgo.It("drops entries that do not decode", func() {
		store.Set(ctx, "p:5", []byte{0xc1}, 0)

		value, err := typed.GetOrLoad(ctx, "p:5", load)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(value.Code).To(gomega.Equal("C1234"))
		gomega.Expect(loads.Load()).To(gomega.Equal(int32(1)))
	})
})
