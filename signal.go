package letui

import "sync"

// Runtime is the evaluation context for the signal graph: it owns the active
// tracker slot, the pending set and the drain loop. All signal operations
// must happen on a single goroutine; work from other goroutines enters
// through Post.
//
// Writes are synchronous - a Set is visible to any read that follows it in
// the same turn. Only the re-execution of subscribers is deferred: pending
// watchers drain when the outermost write or Batch returns.
type Runtime struct {
	active   *watcher
	pending  []*watcher
	draining bool
	batch    int

	mu     sync.Mutex
	posted []func()
	wake   chan struct{}
}

// NewRuntime creates an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		wake: make(chan struct{}, 1),
	}
}

// watcher is one schedulable unit: an effect body or a derived recompute.
type watcher struct {
	rt      *Runtime
	run     func()
	gen     uint64
	seen    map[*source]uint64 // generation at which each source was last read
	sources []*source          // sources currently subscribed to
	pending bool
	stopped bool
}

// source is the subscriber-set half of a signal or derived value.
type source struct {
	subs []*watcher
}

func (s *source) subscribe(w *watcher) {
	s.subs = append(s.subs, w)
}

func (s *source) unsubscribe(w *watcher) {
	for i, sub := range s.subs {
		if sub == w {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify enqueues every current subscriber. Outside a batch or drain the
// pending set flushes immediately, so a lone Set behaves like a write
// followed by one flush cycle.
func (s *source) notify(rt *Runtime) {
	for _, w := range s.subs {
		rt.schedule(w)
	}
	if rt.batch == 0 && !rt.draining && rt.active == nil {
		rt.Flush()
	}
}

// observe registers the active tracker, if any, as a subscriber of s.
// Re-reads within the same run are deduplicated by generation.
func (rt *Runtime) observe(s *source) {
	w := rt.active
	if w == nil {
		return
	}
	if w.seen == nil {
		w.seen = make(map[*source]uint64)
	}
	if w.seen[s] == w.gen {
		return
	}
	if w.seen[s] == 0 {
		s.subscribe(w)
		w.sources = append(w.sources, s)
	}
	w.seen[s] = w.gen
}

// track runs fn with w installed as the active tracker. The previous tracker
// is restored on every exit path, including panics. Each run gets a fresh
// generation; on normal completion, sources the run no longer read are
// explicitly unsubscribed.
func (rt *Runtime) track(w *watcher, fn func()) {
	prev := rt.active
	rt.active = w
	w.gen++
	defer func() {
		rt.active = prev
	}()
	fn()
	w.prune()
	// Writes made by the run itself flush once the outermost tracked run
	// returns, not mid-run.
	rt.active = prev
	if prev == nil && rt.batch == 0 && !rt.draining {
		rt.Flush()
	}
}

// prune drops subscriptions that the latest run did not renew.
func (w *watcher) prune() {
	kept := w.sources[:0]
	for _, s := range w.sources {
		if w.seen[s] == w.gen {
			kept = append(kept, s)
		} else {
			s.unsubscribe(w)
			delete(w.seen, s)
		}
	}
	w.sources = kept
}

// schedule adds a watcher to the pending set. Already-pending and stopped
// watchers are skipped, so a subscriber runs at most once per flush cycle.
func (rt *Runtime) schedule(w *watcher) {
	if w.pending || w.stopped {
		return
	}
	w.pending = true
	rt.pending = append(rt.pending, w)
}

// Flush drains the pending set. Each cycle takes a snapshot, clears the set
// and runs the snapshot in insertion order; watchers scheduled by those runs
// land in the next cycle, and the loop repeats until nothing is pending.
//
// There is no topological sort: in a diamond-shaped graph a downstream
// effect scheduled directly by the written signal can observe a not-yet
// recomputed derived once, and re-runs in the following cycle. The test
// suite pins this at-most-stale-once behavior down.
func (rt *Runtime) Flush() {
	if rt.draining {
		return
	}
	rt.draining = true
	defer func() {
		rt.draining = false
	}()

	for len(rt.pending) > 0 {
		snapshot := rt.pending
		rt.pending = nil
		for _, w := range snapshot {
			w.pending = false
		}
		for _, w := range snapshot {
			if w.stopped {
				continue
			}
			w.run()
		}
	}
}

// Batch coalesces writes: subscribers scheduled inside fn run once when the
// outermost Batch returns, no matter how many writes hit them.
func (rt *Runtime) Batch(fn func()) {
	rt.batch++
	defer func() {
		rt.batch--
		if rt.batch == 0 {
			rt.Flush()
		}
	}()
	fn()
}

// Effect runs fn immediately under tracking and re-runs it whenever any
// signal it read changes. The returned handle stops future runs.
func (rt *Runtime) Effect(fn func()) *Effect {
	w := &watcher{rt: rt}
	w.run = func() {
		rt.track(w, fn)
	}
	w.run()
	return &Effect{w: w}
}

// Effect is a running subscriber with no return value.
type Effect struct {
	w *watcher
}

// Stop unsubscribes the effect from all of its sources. It will not run
// again.
func (e *Effect) Stop() {
	e.w.stopped = true
	for _, s := range e.w.sources {
		s.unsubscribe(e.w)
	}
	e.w.sources = nil
	e.w.seen = nil
}

// Post queues fn to run on the runtime goroutine. Safe to call from any
// goroutine; the Wake channel signals that posted work is waiting.
func (rt *Runtime) Post(fn func()) {
	rt.mu.Lock()
	rt.posted = append(rt.posted, fn)
	rt.mu.Unlock()
	select {
	case rt.wake <- struct{}{}:
	default:
	}
}

// Wake returns a channel that receives after Post. Event loops select on it
// and call DrainPosted.
func (rt *Runtime) Wake() <-chan struct{} {
	return rt.wake
}

// DrainPosted runs all posted closures on the calling goroutine, batching
// their signal writes, and loops until the post queue is empty.
func (rt *Runtime) DrainPosted() {
	for {
		rt.mu.Lock()
		fns := rt.posted
		rt.posted = nil
		rt.mu.Unlock()
		if len(fns) == 0 {
			return
		}
		rt.Batch(func() {
			for _, fn := range fns {
				fn()
			}
		})
	}
}

// Signal is a boxed reactive value with a subscriber set. Get inside a
// tracked run subscribes the tracker; Set replaces the value only when it
// differs from the previous one and notifies subscribers on real change.
type Signal[T any] struct {
	rt  *Runtime
	src source
	val T
	eq  func(a, b T) bool
}

// NewSignal creates a signal over a comparable value, using == as the
// change detector.
func NewSignal[T comparable](rt *Runtime, v T) *Signal[T] {
	return &Signal[T]{
		rt:  rt,
		val: v,
		eq:  func(a, b T) bool { return a == b },
	}
}

// NewSignalFunc creates a signal with a custom equality function. A nil eq
// treats every write as a change.
func NewSignalFunc[T any](rt *Runtime, v T, eq func(a, b T) bool) *Signal[T] {
	return &Signal[T]{rt: rt, val: v, eq: eq}
}

// Get returns the current value and subscribes the active tracker, if any.
func (s *Signal[T]) Get() T {
	s.rt.observe(&s.src)
	return s.val
}

// Peek returns the current value without tracking.
func (s *Signal[T]) Peek() T {
	return s.val
}

// Set replaces the value. Equal writes are dropped without notifying.
func (s *Signal[T]) Set(v T) {
	if s.eq != nil && s.eq(s.val, v) {
		return
	}
	s.val = v
	s.src.notify(s.rt)
}

// Update applies fn to the current value and Sets the result.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.val))
}

// Derived is a memoized computation over signals. It evaluates eagerly once
// to seed the cache, recomputes under tracking when scheduled (picking up a
// fresh dependency set each run), and notifies its own subscribers only when
// the result actually changed.
type Derived[T any] struct {
	rt  *Runtime
	src source
	w   *watcher
	fn  func() T
	val T
	eq  func(a, b T) bool
}

// Derive creates a derived value using == as the change detector.
func Derive[T comparable](rt *Runtime, fn func() T) *Derived[T] {
	return DeriveFunc(rt, fn, func(a, b T) bool { return a == b })
}

// DeriveFunc creates a derived value with a custom equality function. A nil
// eq forwards every recompute to subscribers.
func DeriveFunc[T any](rt *Runtime, fn func() T, eq func(a, b T) bool) *Derived[T] {
	d := &Derived[T]{rt: rt, fn: fn, eq: eq}
	d.w = &watcher{rt: rt}
	d.w.run = d.recompute
	// Eager first evaluation seeds the cache and the initial subscriptions.
	// A panic here propagates to the caller with the tracker slot restored.
	rt.track(d.w, func() {
		d.val = fn()
	})
	return d
}

// Get returns the cached value and subscribes the active tracker, if any.
func (d *Derived[T]) Get() T {
	d.rt.observe(&d.src)
	return d.val
}

// Peek returns the cached value without tracking.
func (d *Derived[T]) Peek() T {
	return d.val
}

// recompute re-evaluates under tracking. If fn panics the cache is left
// untouched and the panic propagates past the drain loop; the tracker slot
// is restored either way. Unchanged results cut propagation.
func (d *Derived[T]) recompute() {
	var v T
	d.rt.track(d.w, func() {
		v = d.fn()
	})
	if d.eq != nil && d.eq(d.val, v) {
		return
	}
	d.val = v
	d.src.notify(d.rt)
}
