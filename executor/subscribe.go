package executor

import (
	"context"
	"reflect"

	"github.com/kjhughes/gql/gqlmap"
)

// SourceStream lets a subscription root field's resolver pair its event channel with an explicit
// teardown hook. A resolver can also just return a bare channel (any element type); in that case
// there's no Stop to call, and the mapping goroutine stops consuming once its context is done.
type SourceStream struct {
	// Events is a channel of any element type (e.g. chan MyEvent, or chan interface{}).
	Events interface{}

	// Stop, if non-nil, is invoked once the stream should be torn down, whether because the
	// consumer's context was cancelled or the channel closed on its own.
	Stop func()
}

// Event is one mapped response from a subscription's event stream: the data and errors produced
// by running the normal execution pipeline against a single source event. Data is nil if and only
// if execution never began for that event (see ExecuteRequest).
type Event struct {
	Data   *gqlmap.Value
	Errors []*Error
}

// eventsChannelAndStop extracts the reflect.Value of the event channel and a (possibly no-op)
// Stop function from whatever Subscribe's resolver returned.
func eventsChannelAndStop(raw interface{}) (reflect.Value, func()) {
	if s, ok := raw.(*SourceStream); ok {
		stop := s.Stop
		if stop == nil {
			stop = func() {}
		}
		return reflect.ValueOf(s.Events), stop
	}
	return reflect.ValueOf(raw), func() {}
}

// MapSubscriptionEvents subscribes to the root subscription field's event stream and maps it,
// lazily and one event at a time, into a stream of executed results. For each event the source
// stream emits, the normal query execution pipeline is run against that event as the root value,
// per the spec's subscription event-to-response mapping. The returned channel is closed, and the
// source stream torn down via its Stop hook (if any), once ctx is cancelled or the source stream
// itself closes.
func MapSubscriptionEvents(ctx context.Context, r *Request) (<-chan *Event, *Error) {
	raw, err := Subscribe(ctx, r)
	if err != nil {
		return nil, err
	}

	eventsChan, stop := eventsChannelAndStop(raw)
	if eventsChan.Kind() != reflect.Chan {
		return nil, newError(nil, "A subscription field's resolver must return an event channel.")
	}

	out := make(chan *Event)
	go func() {
		defer close(out)
		defer stop()

		ctxChan := reflect.ValueOf(ctx.Done())
		selectCases := []reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: ctxChan},
			{Dir: reflect.SelectRecv, Chan: eventsChan},
		}
		for {
			chosen, recv, recvOK := reflect.Select(selectCases)
			if chosen == 0 {
				return
			}
			if !recvOK {
				return
			}

			eventRequest := *r
			eventRequest.InitialValue = recv.Interface()
			data, errs := ExecuteRequest(ctx, &eventRequest)

			select {
			case out <- &Event{Data: data, Errors: errs}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
