package letui

import "context"

// Resource ties one in-flight cancellable async operation to a
// (data, loading) signal pair. Re-triggering cancels the previous run's
// context; a run that has been superseded never commits, so data always
// holds the result of the newest run regardless of completion order.
//
// Failures are not folded into data: a failing run that was not superseded
// resets loading and records the error, readable through Err. There is
// deliberately no error signal; wrap fetch yourself if the UI needs to
// react to failures.
type Resource[T any] struct {
	// Data holds the latest committed result, nil until the first run
	// completes.
	Data *Signal[*T]
	// Loading is true from the moment a run is armed until the newest run
	// settles. Superseded runs never touch it.
	Loading *Signal[bool]

	rt     *Runtime
	fetch  func(ctx context.Context) (T, error)
	gen    uint64
	cancel context.CancelFunc
	err    error
}

// NewResource binds fetch to changes of source. The internal effect runs
// once immediately and again on every source change; each run sees the
// source value it was triggered with.
func NewResource[S any, T any](rt *Runtime, source *Signal[S], fetch func(ctx context.Context, src S) (T, error)) *Resource[T] {
	r := newResource[T](rt)
	rt.Effect(func() {
		src := source.Get()
		r.start(func(ctx context.Context) (T, error) {
			return fetch(ctx, src)
		})
	})
	return r
}

// NewStaticResource runs fetch exactly once, with no source signal.
// Retry re-arms it manually.
func NewStaticResource[T any](rt *Runtime, fetch func(ctx context.Context) (T, error)) *Resource[T] {
	r := newResource[T](rt)
	r.fetch = fetch
	r.start(fetch)
	return r
}

func newResource[T any](rt *Runtime) *Resource[T] {
	return &Resource[T]{
		Data:    NewSignal[*T](rt, nil),
		Loading: NewSignal(rt, false),
		rt:      rt,
	}
}

// Retry re-runs a static resource's fetch, superseding any in-flight run.
func (r *Resource[T]) Retry() {
	if r.fetch != nil {
		r.start(r.fetch)
	}
}

// Err returns the failure of the newest run, or nil if that run succeeded
// or is still in flight. Arming a new run clears the previous failure.
func (r *Resource[T]) Err() error {
	return r.err
}

// start arms a new run: cancel the previous one, bump the generation, set
// loading, and fetch on a fresh goroutine. The settled result posts back to
// the runtime goroutine, where the generation check decides whether it
// still speaks for the newest run.
func (r *Resource[T]) start(fetch func(ctx context.Context) (T, error)) {
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.gen++
	gen := r.gen

	// A fresh run owns the error slot from the moment it is armed; a UI
	// polling Err during reload sees the reload, not the old failure.
	r.err = nil
	r.Loading.Set(true)

	go func() {
		v, err := fetch(ctx)
		r.rt.Post(func() {
			if gen != r.gen {
				return // superseded; a newer run owns the signals
			}
			if err != nil {
				r.err = err
				r.Loading.Set(false)
				return
			}
			r.err = nil
			r.Data.Set(&v)
			r.Loading.Set(false)
		})
	}()
}
