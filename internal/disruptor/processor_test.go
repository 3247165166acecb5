package disruptor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEvent struct {
	processed *atomic.Int64
}

func (e *countingEvent) Process() error {
	e.processed.Add(1)
	return nil
}

type zeroWait struct{}

func (zeroWait) Wait(int) {}

func TestEventProcessor_ReserveSetCommitPop(t *testing.T) {
	p := NewEventProcessor(8)

	handle, err := p.Reserve()
	require.NoError(t, err)
	require.True(t, handle.Valid())

	var processed atomic.Int64
	handle.Set(&countingEvent{processed: &processed})
	handle.Commit()

	event, err := p.PopEvent()
	require.NoError(t, err)
	require.NotNil(t, event)

	require.NoError(t, event.Process())
	assert.EqualValues(t, 1, processed.Load())
}

func TestEventProcessor_ReserveRangeFewerThanRequested(t *testing.T) {
	p := NewEventProcessor(4)

	// Fill the buffer down to one free slot.
	for i := 0; i < 3; i++ {
		h, err := p.Reserve()
		require.NoError(t, err)
		var processed atomic.Int64
		h.Set(&countingEvent{processed: &processed})
		h.Commit()
	}

	reserved, err := p.ReserveRange(4)
	require.ErrorIs(t, err, ErrFull)
	assert.EqualValues(t, 0, reserved.Count())
}

func TestEventProcessor_DispatchLoop_DrainsThenExitsOnShutdown(t *testing.T) {
	p := NewEventProcessor(1024)

	var processed atomic.Int64
	const total = 1000

	ctx, cancel := context.WithCancel(context.Background())

	var producerWG sync.WaitGroup
	producerWG.Add(1)
	go func() {
		defer producerWG.Done()
		for i := 0; i < total; i++ {
			for {
				h, err := p.Reserve()
				if err == ErrFull {
					continue
				}
				require.NoError(t, err)
				h.Set(&countingEvent{processed: &processed})
				h.Commit()
				break
			}
		}
	}()

	var consumerWG sync.WaitGroup
	consumerWG.Add(1)
	go func() {
		defer consumerWG.Done()
		err := p.DispatchLoop(ctx, zeroWait{}, func(r any) {
			t.Errorf("unexpected panic: %v", r)
		})
		assert.NoError(t, err)
	}()

	producerWG.Wait()
	cancel()
	consumerWG.Wait()

	assert.EqualValues(t, total, processed.Load())
	assert.True(t, p.IsEmpty())
}

// TestEventProcessor_ShutdownDrainsSixteenProducers exercises a realistic
// high-fanout load shape: 16 producers, 10_000 events each.
func TestEventProcessor_ShutdownDrainsSixteenProducers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping high-volume shutdown drain in -short mode")
	}

	const producers = 16
	const perProducer = 10_000

	p := NewEventProcessor(4096)
	var processed atomic.Int64

	ctx, cancel := context.WithCancel(context.Background())

	var consumerWG sync.WaitGroup
	consumerWG.Add(1)
	go func() {
		defer consumerWG.Done()
		_ = p.DispatchLoop(ctx, zeroWait{}, func(r any) {
			t.Errorf("unexpected panic: %v", r)
		})
	}()

	var producerWG sync.WaitGroup
	producerWG.Add(producers)
	for i := 0; i < producers; i++ {
		go func() {
			defer producerWG.Done()
			for j := 0; j < perProducer; j++ {
				for {
					h, err := p.Reserve()
					if err == ErrFull {
						continue
					}
					h.Set(&countingEvent{processed: &processed})
					h.Commit()
					break
				}
			}
		}()
	}

	producerWG.Wait()
	cancel()

	done := make(chan struct{})
	go func() {
		consumerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("dispatch loop did not drain and exit in time")
	}

	assert.EqualValues(t, producers*perProducer, processed.Load())
}
