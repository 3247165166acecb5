// Package demo provides a minimal concrete Event implementation used by
// cmd/eventbench. It is a payload type external to the core packages,
// which never import it.
package demo

import "go.uber.org/zap"

// WorkItem is a concrete disruptor.Event: a tagged value produced by one
// of cmd/eventbench's producers and processed by the single consumer. It
// carries a producer identity alongside its payload so a shared log line
// can attribute each processed event back to the goroutine that wrote it.
type WorkItem struct {
	ProducerID string
	Sequence   uint64
	Value      int

	log *zap.SugaredLogger
}

// NewWorkItem builds a WorkItem that logs through l when processed. l may
// be nil, in which case Process is a no-op beyond returning nil.
func NewWorkItem(producerID string, sequence uint64, value int, l *zap.SugaredLogger) *WorkItem {
	return &WorkItem{ProducerID: producerID, Sequence: sequence, Value: value, log: l}
}

// Process implements disruptor.Event.
func (w *WorkItem) Process() error {
	if w.log != nil {
		w.log.Debugw("processed work item",
			"producer", w.ProducerID,
			"sequence", w.Sequence,
			"value", w.Value,
		)
	}
	return nil
}
