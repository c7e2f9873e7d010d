package client

import (
	"context"
	"sync"
)

// Resource bundles a fetch function with its last result, mirroring the
// fetch-on-first-use pattern the profile pages rely on. One in-memory value,
// no deduplication, no retry: a failed fetch records the error and stops
// until the caller refetches.
type Resource[T any] struct {
	mu     sync.Mutex
	fetch  func(context.Context) (T, error)
	data   T
	err    error
	loaded bool
}

// NewResource creates a resource around a fetch function.
func NewResource[T any](fetch func(context.Context) (T, error)) *Resource[T] {
	return &Resource[T]{fetch: fetch}
}

// Get returns the cached value, fetching it on first use. A previous failure
// is returned as-is; call Refetch to retry.
func (r *Resource[T]) Get(ctx context.Context) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded || r.err != nil {
		return r.data, r.err
	}
	return r.load(ctx)
}

// Refetch discards the cached value and fetches again.
func (r *Resource[T]) Refetch(ctx context.Context) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Update runs a mutation and replaces the cached value with whatever the
// server returned. No merge logic.
func (r *Resource[T]) Update(ctx context.Context, mutate func(context.Context) (T, error)) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := mutate(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	r.data = data
	r.err = nil
	r.loaded = true
	return r.data, nil
}

// Loaded reports whether a successful fetch has happened.
func (r *Resource[T]) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Err returns the error from the last fetch, if any.
func (r *Resource[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Resource[T]) load(ctx context.Context) (T, error) {
	data, err := r.fetch(ctx)
	if err != nil {
		var zero T
		r.data = zero
		r.err = err
		r.loaded = false
		return zero, err
	}
	r.data = data
	r.err = nil
	r.loaded = true
	return data, nil
}
