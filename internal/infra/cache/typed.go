package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// Typed stores values of one type in a Cache, encoded as msgpack. Concurrent
// loads of the same key share one call to the loader.
type Typed[T any] struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewTyped[T any](cache Cache, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: cache, ttl: ttl}
}

func (t *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := t.get(ctx, key); ok {
		return value, nil
	}

	result, err, _ := t.group.Do(key, func() (any, error) {
		if value, ok := t.get(ctx, key); ok {
			return value, nil
		}
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		t.Put(ctx, key, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (t *Typed[T]) Put(ctx context.Context, key string, value T) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		slog.Error("encoding cache entry", slog.String("key", key), slog.Any("error", err))
		return
	}
	t.cache.Set(ctx, key, data, t.ttl)
}

func (t *Typed[T]) Forget(ctx context.Context, key string) {
	t.cache.Delete(ctx, key)
}

func (t *Typed[T]) get(ctx context.Context, key string) (T, bool) {
	var value T
	data, ok := t.cache.Get(ctx, key)
	if !ok {
		return value, false
	}
	if err := msgpack.Unmarshal(data, &value); err != nil {
		slog.Warn("dropping undecodable cache entry", slog.String("key", key), slog.Any("error", fmt.Errorf("decoding: %w", err)))
		t.cache.Delete(ctx, key)
		return value, false
	}
	return value, true
}
