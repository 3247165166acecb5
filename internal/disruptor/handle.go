package disruptor

// ReservedEvent is the transient capability returned by
// EventProcessor.Reserve. It represents the right to populate exactly one
// slot and then commit it; it is not meant to outlive that single
// round-trip. Go has no non-copyable/non-movable value types, so this
// documents the discipline instead of enforcing it structurally: copy a
// ReservedEvent and you get two handles to the same slot, and committing
// through either twice is a contract violation.
type ReservedEvent struct {
	seq   uint64
	rb    *RingBuffer[Event]
	valid bool
}

// Valid reports whether the reservation succeeded. An invalid handle's
// zero value is safe to hold onto and check; calling Set or Commit on one
// is a no-op.
func (h ReservedEvent) Valid() bool { return h.valid }

// SequenceNumber returns the sequence number assigned at reservation.
func (h ReservedEvent) SequenceNumber() uint64 { return h.seq }

// Set writes the event into the reserved slot. Call it exactly once,
// before Commit.
func (h ReservedEvent) Set(event Event) {
	if !h.valid {
		return
	}
	*h.rb.Slot(h.seq) = event
}

// Commit publishes the slot, making it visible to the consumer. Calling
// Commit without a prior Set leaves a nil Event in the slot, which
// PopEvent surfaces to the caller rather than dispatching — see
// EventProcessor.PopEvent.
func (h ReservedEvent) Commit() {
	if !h.valid {
		return
	}
	h.rb.Commit(h.seq)
}

// ReservedEvents is the transient capability returned by
// EventProcessor.ReserveRange: the right to populate up to Count()
// contiguous slots and commit them together. A failed reservation yields a
// handle with Count() == 0 — always check Count() before indexing.
type ReservedEvents struct {
	start uint64
	count uint64
	rb    *RingBuffer[Event]
}

// Valid reports whether any slots were reserved.
func (r ReservedEvents) Valid() bool { return r.count > 0 }

// Count returns the number of slots actually reserved.
func (r ReservedEvents) Count() uint64 { return r.count }

// StartSequence returns the sequence number of the first reserved slot.
func (r ReservedEvents) StartSequence() uint64 { return r.start }

// Emplace writes event into the slot at the given offset within the
// range. index must be in [0, Count()); out-of-range indices are ignored
// rather than panicking.
func (r ReservedEvents) Emplace(index uint64, event Event) {
	if index >= r.count {
		return
	}
	*r.rb.Slot(r.start+index) = event
}

// Commit publishes every slot in the range, in ascending sequence order.
func (r ReservedEvents) Commit() {
	if r.count == 0 {
		return
	}
	r.rb.CommitRange(r.start, r.count)
}
