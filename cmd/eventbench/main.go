// Command eventbench drives the disruptor package end to end: N producer
// goroutines reserve and commit WorkItems, one consumer goroutine drains
// and dispatches them, and a /metrics endpoint exposes the Prometheus
// counters ringmetrics records along the way.
//
// Writers loop ReserveRange+Emplace+Commit, the reader spin-polls
// PopEvent, and SIGINT/SIGTERM trigger a signal-then-drain shutdown that
// lets in-flight producers finish before the HTTP server and event
// processor stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rishav/eventring/internal/backoff"
	"github.com/rishav/eventring/internal/demo"
	"github.com/rishav/eventring/internal/disruptor"
	"github.com/rishav/eventring/internal/ringmetrics"
)

func main() {
	capacity := flag.Uint64("capacity", 1024, "ring buffer capacity (rounded up to a power of two)")
	producers := flag.Int("producers", 16, "number of concurrent producer goroutines")
	eventsPerProducer := flag.Int("events", 10_000, "events emitted by each producer")
	batchSize := flag.Uint64("batch", 2, "events reserved per ReserveRange call")
	metricsAddr := flag.String("metrics-addr", ":9090", "address for the Prometheus /metrics endpoint")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cap := disruptor.NextPow2(*capacity)
	processor := disruptor.NewEventProcessor(cap)

	recorder := ringmetrics.New("eventbench")
	registry := prometheus.NewRegistry()
	if err := recorder.Register(registry); err != nil {
		sugar.Fatalw("failed to register metrics", "error", err)
	}
	processor.RingBuffer().SetRecorder(recorder)

	metricsServer := &http.Server{
		Addr:    *metricsAddr,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Errorw("metrics server failed", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigCh; ok {
			sugar.Infow("shutdown signal received, finishing in-flight work")
			cancel()
		}
	}()

	var consumerWG sync.WaitGroup
	consumerWG.Add(1)
	go func() {
		defer consumerWG.Done()
		waiter := backoff.New(backoff.WithSpinLimit(200), backoff.WithInterval(50*time.Microsecond))
		err := processor.DispatchLoop(ctx, waiter, func(recovered any) {
			sugar.Errorw("event processing failed", "panic", recovered)
		})
		if err != nil {
			sugar.Errorw("dispatch loop exited with error", "error", err)
		}
	}()

	var producerWG sync.WaitGroup
	producerWG.Add(*producers)
	for p := 0; p < *producers; p++ {
		go func(producerID string) {
			defer producerWG.Done()
			waiter := backoff.New(backoff.WithSpinLimit(50), backoff.WithInterval(10*time.Microsecond))

			emitted := 0
			attempt := 0
			for emitted < *eventsPerProducer && ctx.Err() == nil {
				remaining := uint64(*eventsPerProducer - emitted)
				want := *batchSize
				if want > remaining {
					want = remaining
				}

				reserved, err := processor.ReserveRange(want)
				if err != nil || reserved.Count() == 0 {
					waiter.Wait(attempt)
					attempt++
					continue
				}
				attempt = 0

				for i := uint64(0); i < reserved.Count(); i++ {
					reserved.Emplace(i, demo.NewWorkItem(producerID, reserved.StartSequence()+i, emitted+int(i), sugar))
				}
				reserved.Commit()
				emitted += int(reserved.Count())
			}
		}(uuid.New().String())
	}

	producerWG.Wait()
	sugar.Infow("all producers finished", "total_events", *producers**eventsPerProducer)

	cancel()
	signal.Stop(sigCh)
	close(sigCh)
	consumerWG.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("metrics server shutdown failed", "error", err)
	}

	sugar.Infow("eventbench run complete", "depth", processor.RingBuffer().Depth())
}
