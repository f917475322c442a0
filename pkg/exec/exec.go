// Package exec provides background task submission with typed futures and
// marshalling of results back to the UI-affine thread. Cancellation beyond
// context expiry of a Wait call is not propagated; the task runs to
// completion either way.
package exec

import (
	"context"
	"time"

	"github.com/go-drift/keyed/pkg/bridge"
	"github.com/go-drift/keyed/pkg/errors"
)

// Future holds the pending result of a submitted task.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Submit runs fn on a background goroutine and returns a Future for its
// result. Panics inside fn are recovered, reported through the global error
// handler, and surfaced as the future's error.
func Submit[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				perr := &errors.PanicError{
					Op:         "exec.Submit",
					Value:      r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
				errors.ReportPanic(perr)
				f.err = perr
			}
		}()
		f.val, f.err = fn()
	}()
	return f
}

// Wait blocks until the task finishes or ctx is canceled.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the task completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// RunOnMain posts cb to the UI-affine thread through the registered bridge
// dispatcher. It reports false when no dispatcher is registered.
func RunOnMain(cb func()) bool {
	return bridge.Dispatch(cb)
}

// OnMain delivers the future's result to cb on the UI-affine thread once the
// task completes. When no dispatcher is registered, cb runs on the waiting
// goroutine instead.
func OnMain[T any](f *Future[T], cb func(T, error)) {
	go func() {
		<-f.done
		if !bridge.Dispatch(func() { cb(f.val, f.err) }) {
			cb(f.val, f.err)
		}
	}()
}
