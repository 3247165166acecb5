package disruptor

import (
	"context"
	"fmt"
)

// Waiter is the caller-side backoff policy a DispatchLoop spins through
// between empty pops. The core buffer never sleeps or parks itself;
// EventProcessor only asks for one the way its own caller configures it.
// internal/backoff implements this interface; tests use a zero-wait stub.
type Waiter interface {
	Wait(attempt int)
}

// EventProcessor is a thin façade over a RingBuffer[Event]. It translates
// the generic reserve/commit/pop contract into event-dispatch vocabulary,
// without adding buffering, logging, or I/O of its own — those are the
// demo's job (cmd/eventbench), not the façade's.
type EventProcessor struct {
	rb *RingBuffer[Event]
}

// NewEventProcessor creates a processor over a fresh ring buffer of the
// given capacity (a power of two).
func NewEventProcessor(capacity uint64) *EventProcessor {
	return &EventProcessor{rb: New[Event](capacity)}
}

// RingBuffer exposes the underlying buffer, e.g. so a caller can attach a
// Recorder or inspect Depth/IsEmpty directly.
func (p *EventProcessor) RingBuffer() *RingBuffer[Event] { return p.rb }

// Reserve claims a single slot. The caller populates it via the returned
// handle's Set method and then calls Commit (either ReservedEvent.Commit
// or EventProcessor.Commit — the handle is the source of truth for which
// sequence to commit).
func (p *EventProcessor) Reserve() (ReservedEvent, error) {
	seq, err := p.rb.Reserve()
	if err != nil {
		return ReservedEvent{}, err
	}
	return ReservedEvent{seq: seq, rb: p.rb, valid: true}, nil
}

// ReserveRange claims count contiguous slots in one call. The grant is all
// or nothing: when the full run does not fit (see RingBuffer.ReserveRange)
// it returns ErrFull and a handle with Count() == 0; a partial run is never
// granted. Callers check Count() before indexing.
func (p *EventProcessor) ReserveRange(count uint64) (ReservedEvents, error) {
	start, err := p.rb.ReserveRange(count)
	if err != nil {
		return ReservedEvents{}, err
	}
	return ReservedEvents{start: start, count: count, rb: p.rb}, nil
}

// Commit publishes the slot at seq. Prefer ReservedEvent.Commit when you
// still hold the handle; this form exists for callers that persisted only
// the sequence number, e.g. across a channel boundary.
func (p *EventProcessor) Commit(seq uint64) {
	p.rb.Commit(seq)
}

// CommitRange publishes count consecutive slots starting at seq.
func (p *EventProcessor) CommitRange(seq uint64, count uint64) {
	p.rb.CommitRange(seq, count)
}

// PopEvent removes and returns the next event in sequence order.
func (p *EventProcessor) PopEvent() (Event, error) {
	return p.rb.Pop()
}

// IsEmpty reports whether every reserved event has been committed and
// popped; an outstanding uncommitted reservation keeps it false.
func (p *EventProcessor) IsEmpty() bool { return p.rb.IsEmpty() }

// DispatchLoop pops and dispatches events until ctx is done AND the
// buffer is empty, calling waiter.Wait between empty pops instead of
// busy-spinning. A panic from event.Process is recovered and reported via
// onPanic rather than crashing the consumer goroutine.
//
// It spin-polls PopEvent, backs off on failure, processes on success, and
// runs until told to stop and fully drained.
func (p *EventProcessor) DispatchLoop(ctx context.Context, waiter Waiter, onPanic func(recovered any)) error {
	attempt := 0
	for {
		event, err := p.rb.Pop()
		if err == nil {
			attempt = 0
			dispatch(event, onPanic)
			continue
		}

		if ctx.Err() != nil && p.rb.IsEmpty() {
			return nil
		}

		waiter.Wait(attempt)
		attempt++
	}
}

func dispatch(event Event, onPanic func(recovered any)) {
	if event == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && onPanic != nil {
			onPanic(r)
		}
	}()
	if err := event.Process(); err != nil && onPanic != nil {
		onPanic(fmt.Errorf("event processing failed: %w", err))
	}
}
