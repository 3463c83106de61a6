package content

import (
	"context"
	"fmt"
	"time"
)

// State is the lifecycle of a content request as seen by a view.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the tagged outcome of a boundary call: either Value or Err.
type Result[T any] struct {
	Value T
	Err   *Error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// State is StateLoaded or StateFailed.
func (r Result[T]) State() State {
	if r.Err != nil {
		return StateFailed
	}
	return StateLoaded
}

// Resource is a content request running in the background.
type Resource[T any] struct {
	done   chan struct{}
	result Result[T]
}

// Done is closed once the result is available.
func (r *Resource[T]) Done() <-chan struct{} { return r.done }

// State returns StateLoading until the request finishes.
func (r *Resource[T]) State() State {
	select {
	case <-r.done:
		return r.result.State()
	default:
		return StateLoading
	}
}

// Result returns the outcome without blocking; ok is false while loading.
func (r *Resource[T]) Result() (res Result[T], ok bool) {
	select {
	case <-r.done:
		return r.result, true
	default:
		return Result[T]{}, false
	}
}

// Wait blocks until the request finishes or ctx is done. Giving up on ctx
// does not stop the request.
func (r *Resource[T]) Wait(ctx context.Context) Result[T] {
	select {
	case <-r.done:
		return r.result
	case <-ctx.Done():
		return Result[T]{Err: newError(KindIOFailure, "wait", "", ctx.Err())}
	}
}

// Source is what the boundary reads from. *Store implements it.
type Source interface {
	ListPosts(ctx context.Context) ([]PostMetadata, error)
	RenderPost(ctx context.Context, identifier string) (HTML, error)
}

// Observer is told about every finished boundary call. err is nil on success.
type Observer func(op string, err *Error, elapsed time.Duration)

// Boundary exposes a Source to views. Failures come back as tagged results,
// panics included; nothing is retried or cached.
type Boundary struct {
	src      Source
	observer Observer
}

// BoundaryOption configures a Boundary.
type BoundaryOption func(*Boundary)

// WithObserver registers fn to be called after every request.
func WithObserver(fn Observer) BoundaryOption {
	return func(b *Boundary) { b.observer = fn }
}

// NewBoundary returns a Boundary over src.
func NewBoundary(src Source, opts ...BoundaryOption) *Boundary {
	b := &Boundary{src: src}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

const (
	OpGetPostsMeta = "GetPostsMeta"
	OpGetPost      = "GetPost"
)

// GetPostsMeta lists post metadata in discovery order.
func (b *Boundary) GetPostsMeta(ctx context.Context) Result[[]PostMetadata] {
	return call(ctx, b, OpGetPostsMeta, b.src.ListPosts)
}

// GetPost renders the post addressed by identifier.
func (b *Boundary) GetPost(ctx context.Context, identifier string) Result[HTML] {
	return call(ctx, b, OpGetPost, func(ctx context.Context) (HTML, error) {
		return b.src.RenderPost(ctx, identifier)
	})
}

// FetchPostsMeta starts GetPostsMeta in the background.
func (b *Boundary) FetchPostsMeta(ctx context.Context) *Resource[[]PostMetadata] {
	return fetch(ctx, func(ctx context.Context) Result[[]PostMetadata] {
		return b.GetPostsMeta(ctx)
	})
}

// FetchPost starts GetPost in the background.
func (b *Boundary) FetchPost(ctx context.Context, identifier string) *Resource[HTML] {
	return fetch(ctx, func(ctx context.Context) Result[HTML] {
		return b.GetPost(ctx, identifier)
	})
}

func fetch[T any](ctx context.Context, fn func(context.Context) Result[T]) *Resource[T] {
	r := &Resource[T]{done: make(chan struct{})}
	// The read is allowed to finish even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(r.done)
		r.result = fn(ctx)
	}()
	return r
}

func call[T any](ctx context.Context, b *Boundary, op string, fn func(context.Context) (T, error)) (res Result[T]) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Err: newError(KindIOFailure, op, "", fmt.Errorf("panic: %v", p))}
		}
		if b.observer != nil {
			b.observer(op, res.Err, time.Since(start))
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		return Result[T]{Err: AsError(op, err)}
	}
	return Result[T]{Value: v}
}
