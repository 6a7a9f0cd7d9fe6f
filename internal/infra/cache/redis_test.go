package cache_test

import (
	"context"
	"errors"
	"time"

	"gaitbase/internal/infra/cache"
	mockcache "gaitbase/test/unit/doubles/infra/cache"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("RedisCache", func() {
	var (
		ctrl   *gomock.Controller
		client *mockcache.MockClient
		store  *cache.RedisCache
		ctx    context.Context
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		client = mockcache.NewMockClient(ctrl)
		store = cache.NewRedisCacheWithClient(client, "gaitbase:")
		ctx = context.Background()
	})

	ginkgo.It("prefixes keys and passes the TTL on", func() {
		client.EXPECT().
			Set(gomock.Any(), "gaitbase:patient:1", []byte("payload"), time.Minute).
			Return(redis.NewStatusCmd(ctx))

		gomega.Expect(store.Set(ctx, "patient:1", []byte("payload"), time.Minute)).To(gomega.BeTrue())
	})

	ginkgo.It("reports a failed write", func() {
		cmd := redis.NewStatusCmd(ctx)
		cmd.SetErr(errors.New("connection refused"))
		client.EXPECT().Set(gomock.Any(), "gaitbase:patient:1", gomock.Any(), time.Duration(0)).Return(cmd)

		gomega.Expect(store.Set(ctx, "patient:1", []byte("payload"), 0)).To(gomega.BeFalse())
	})

	ginkgo.It("returns stored bytes", func() {
		cmd := redis.NewStringCmd(ctx, "get", "gaitbase:patient:1")
		cmd.SetVal("payload")
		client.EXPECT().Get(gomock.Any(), "gaitbase:patient:1").Return(cmd)

		value, found := store.Get(ctx, "patient:1")
		gomega.Expect(found).To(gomega.BeTrue())
		gomega.Expect(value).To(gomega.Equal([]byte("payload")))
	})

	ginkgo.It("treats redis.Nil as a miss", func() {
		cmd := redis.NewStringCmd(ctx, "get", "gaitbase:patient:2")
		cmd.SetErr(redis.Nil)
		client.EXPECT().Get(gomock.Any(), "gaitbase:patient:2").Return(cmd)

		_, found := store.Get(ctx, "patient:2")
		gomega.Expect(found).To(gomega.BeFalse())
	})

	ginkgo.It("deletes prefixed keys", func() {
		client.EXPECT().Del(gomock.Any(), "gaitbase:patient:3").Return(redis.NewIntCmd(ctx))

		store.Delete(ctx, "patient:3")
	})
})
