// Package future implements small, allocation-light combinators for cooperatively-scheduled
// asynchronous values. Unlike goroutines backed by channels, a Future's poll function is driven
// entirely by its owner calling Poll, which is what lets the executor interleave field resolution
// without spinning up a goroutine per field.
package future

import "reflect"

// Result holds either a value or an error.
type Result[T any] struct {
	Value T
	Error error
}

// IsOk returns true if the result is not an error.
func (r Result[T]) IsOk() bool {
	return r.Error == nil || reflect.ValueOf(r.Error).IsNil()
}

// IsErr returns true if the result is an error.
func (r Result[T]) IsErr() bool {
	return !r.IsOk()
}

// Future represents a result that will become available at some point in the future, without
// requiring its own goroutine. Polling drives it toward readiness.
type Future[T any] struct {
	result Result[T]
	poll   func() (Result[T], bool)
}

// New constructs a future from a poll function. When the future's value becomes available, poll
// should return it along with true. Until then, it should return a zero value and false.
func New[T any](poll func() (Result[T], bool)) Future[T] {
	return Future[T]{poll: poll}
}

// IsReady returns true if the future's result is available.
func (f Future[T]) IsReady() bool {
	return f.poll == nil
}

// Result returns the future's result, which is only meaningful once IsReady returns true.
func (f Future[T]) Result() Result[T] {
	return f.result
}

// Poll drives the future toward readiness, invoking its poll function (and transitively, the poll
// functions of anything it depends on) once.
func (f *Future[T]) Poll() {
	if f.poll != nil {
		if r, ok := f.poll(); ok {
			f.result = r
			f.poll = nil
		}
	}
}

// Ok returns a future that's immediately ready with v.
func Ok[T any](v T) Future[T] {
	return Future[T]{result: Result[T]{Value: v}}
}

// Err returns a future that's immediately ready with err.
func Err[T any](err error) Future[T] {
	return Future[T]{result: Result[T]{Error: err}}
}

// Map converts a future's result to a different type using fn.
func Map[T, U any](f Future[T], fn func(Result[T]) Result[U]) Future[U] {
	if f.IsReady() {
		return Future[U]{result: fn(f.result)}
	}
	fpoll := f.poll
	return New(func() (Result[U], bool) {
		if r, ok := fpoll(); ok {
			return fn(r), true
		}
		return Result[U]{}, false
	})
}

// MapOk converts a future's value using fn, leaving an error result untouched.
func MapOk[T, U any](f Future[T], fn func(T) U) Future[U] {
	return Map(f, func(r Result[T]) Result[U] {
		if r.IsErr() {
			return Result[U]{Error: r.Error}
		}
		return Result[U]{Value: fn(r.Value)}
	})
}

// Then invokes fn once f resolves, returning a future that resolves when fn's return value does.
func Then[T, U any](f Future[T], fn func(Result[T]) Future[U]) Future[U] {
	if f.IsReady() {
		return fn(f.result)
	}
	var then Future[U]
	var hasThen bool
	fpoll := f.poll
	return New(func() (Result[U], bool) {
		if !hasThen {
			if r, ok := fpoll(); ok {
				then = fn(r)
				hasThen = true
			}
		}
		if hasThen {
			then.Poll()
			return then.result, then.IsReady()
		}
		return Result[U]{}, false
	})
}

// Join combines the values of every future in fs into a single future that resolves to a slice of
// them, in order. If any future errors, the returned future resolves to that error as soon as it's
// known, without waiting for the rest.
func Join[T any](fs ...Future[T]) Future[[]T] {
	results := make([]T, len(fs))

	ok := true
	for i, f := range fs {
		if f.IsReady() {
			if f.result.IsErr() {
				return Err[[]T](f.result.Error)
			}
			results[i] = f.result.Value
		} else {
			ok = false
		}
	}
	if ok {
		return Ok(results)
	}

	return New(func() (Result[[]T], bool) {
		allReady := true
		for i := range fs {
			fs[i].Poll()
			if fs[i].IsReady() {
				if fs[i].result.IsErr() {
					return Result[[]T]{Error: fs[i].result.Error}, true
				}
				results[i] = fs[i].result.Value
			} else {
				allReady = false
			}
		}
		if allReady {
			return Result[[]T]{Value: results}, true
		}
		return Result[[]T]{}, false
	})
}

// After resolves once every future in fs has resolved, discarding their values. If any future
// errors, the returned future resolves to that error as soon as it's known.
func After[T any](fs ...Future[T]) Future[struct{}] {
	ok := true
	for _, f := range fs {
		if f.IsReady() {
			if f.result.IsErr() {
				return Err[struct{}](f.result.Error)
			}
		} else {
			ok = false
		}
	}
	if ok {
		return Ok(struct{}{})
	}

	return New(func() (Result[struct{}], bool) {
		allReady := true
		for i := range fs {
			fs[i].Poll()
			if fs[i].IsReady() {
				if fs[i].result.IsErr() {
					return Result[struct{}]{Error: fs[i].result.Error}, true
				}
			} else {
				allReady = false
			}
		}
		if allReady {
			return Result[struct{}]{}, true
		}
		return Result[struct{}]{}, false
	})
}
