package writer

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mergekv/mergekv/pkg/metrics"
	"github.com/mergekv/mergekv/pkg/processor"
	"github.com/mergekv/mergekv/pkg/record"
	"github.com/mergekv/mergekv/pkg/utils"
)

// Config carries the writer's tunables. MaxBufferedRecords is
// required and must be positive; the other fields are optional.
type Config struct {
	// MaxBufferedRecords is the eviction threshold: whenever the
	// buffered record count exceeds it, oldest groups are flushed
	// until the count is back at or below it.
	MaxBufferedRecords int

	// KeyExtractor overrides the default row-key based extraction.
	KeyExtractor KeyExtractor

	// Builder overrides the default span-key write builder.
	Builder WriteBuilder

	// Metrics enables prometheus instrumentation when set.
	Metrics *metrics.WriterMetrics
}

// BufferedWriter buffers incoming writes grouped by logical key and
// collapses each multi-record group into a single store write through
// the merge processor, amortizing store round-trips.
//
// The writer is built for a single logical caller: it does no
// internal locking, and both eviction and Flush run synchronously on
// the caller's goroutine, so a Write call can block on store
// round-trips when the buffer threshold is crossed. Producers that
// share one writer must serialize externally.
type BufferedWriter struct {
	store     Store
	processor processor.Processor
	extractor KeyExtractor
	builder   WriteBuilder
	metrics   *metrics.WriterMetrics

	buffer *Buffer

	// result is reused across merges to avoid per-group allocation;
	// it is reinitialized before every Process call.
	result processor.Result

	maxBuffered int

	queuedCount  int64
	writtenCount int64
}

// NewBufferedWriter creates a writer in front of the given store.
func NewBufferedWriter(store Store, proc processor.Processor, config Config) (*BufferedWriter, error) {
	if store == nil || proc == nil || config.MaxBufferedRecords <= 0 {
		return nil, utils.ErrInvalidConfig
	}
	w := &BufferedWriter{
		store:       store,
		processor:   proc,
		extractor:   config.KeyExtractor,
		builder:     config.Builder,
		metrics:     config.Metrics,
		buffer:      NewBuffer(),
		maxBuffered: config.MaxBufferedRecords,
	}
	if w.extractor == nil {
		w.extractor = rowKeyExtractor{}
	}
	if w.builder == nil {
		w.builder = spanBuilder{}
	}
	return w, nil
}

// Write queues a record under its logical key. Crossing the buffer
// threshold evicts and flushes oldest groups inline, so the call may
// block on store writes; a returned error means some groups may have
// already been written and lost from the buffer.
func (w *BufferedWriter) Write(rec *record.Record) error {
	logical, err := w.extractor.LogicalKey(rec.Key)
	if err != nil {
		return err
	}
	w.queuedCount++
	w.buffer.Append(logical, rec)
	if w.metrics != nil {
		w.metrics.RecordQueued(w.buffer.Size())
	}
	return w.evictWhileOverLimit()
}

// Flush drains all pending groups through the flush pipeline in
// insertion order and empties the buffer. Groups flushed before a
// failure are not rolled back.
func (w *BufferedWriter) Flush() error {
	start := time.Now()
	for w.buffer.Size() > 0 {
		group, err := w.buffer.RemoveOldest()
		if err != nil {
			return err
		}
		if err := w.flushGroup(group); err != nil {
			return err
		}
	}
	w.buffer.Clear()
	if w.metrics != nil {
		w.metrics.ObserveFlushLatency(float64(time.Since(start).Milliseconds()))
	}
	return nil
}

// Buffered returns the current buffered record count.
func (w *BufferedWriter) Buffered() int {
	return w.buffer.Size()
}

// PendingGroups walks the buffered groups oldest first until fn
// returns false.
func (w *BufferedWriter) PendingGroups(fn func(key []byte, records []*record.Record) bool) {
	w.buffer.Ascend(func(group *Group) bool {
		return fn(group.Key(), group.Records())
	})
}

// QueuedCount returns how many records have been accepted by Write.
func (w *BufferedWriter) QueuedCount() int64 {
	return w.queuedCount
}

// WrittenCount returns how many writes were submitted to the store,
// one per flushed group regardless of group size.
func (w *BufferedWriter) WrittenCount() int64 {
	return w.writtenCount
}

// ResetStats zeroes both counters without touching buffer contents.
func (w *BufferedWriter) ResetStats() {
	w.queuedCount = 0
	w.writtenCount = 0
}

// evictWhileOverLimit removes and flushes oldest groups until the
// buffered count is back under the threshold. A single insert can
// only go one record over, so normally at most one group goes, but
// the loop keeps the invariant at any threshold.
func (w *BufferedWriter) evictWhileOverLimit() error {
	for w.buffer.Size() > w.maxBuffered {
		group, err := w.buffer.RemoveOldest()
		if err != nil {
			return err
		}
		utils.Logger().Debug("evicting oldest group",
			zap.Binary("logical_key", group.Key()),
			zap.Int("records", group.Len()),
			zap.Int("buffered", w.buffer.Size()))
		if w.metrics != nil {
			w.metrics.GroupEvicted(w.buffer.Size())
		}
		if err := w.flushGroup(group); err != nil {
			return err
		}
	}
	return nil
}

// flushGroup turns one removed group into exactly one store write: a
// pass-through of the single record, or a merged write spanning the
// group's physical key range.
func (w *BufferedWriter) flushGroup(group *Group) error {
	records := group.Records()
	if len(records) == 1 {
		return w.put(records[0])
	}

	first := records[0]
	last := records[len(records)-1]
	w.result.Init(first.Key)
	rows := make([]*record.Row, len(records))
	for i, rec := range records {
		rows[i] = rec.Row()
	}
	w.processor.Process(rows, &w.result)

	merged, err := w.builder.Build(&w.result, first.Key, last.Key)
	if err != nil {
		return err
	}
	if w.metrics != nil {
		w.metrics.GroupMerged()
	}
	return w.put(merged)
}

func (w *BufferedWriter) put(rec *record.Record) error {
	w.writtenCount++
	if w.metrics != nil {
		w.metrics.RecordWritten()
	}
	if err := w.store.Write(rec); err != nil {
		utils.Logger().Error("store write failed",
			zap.Binary("key", rec.Key), zap.Error(err))
		return errors.Wrap(err, "store write failure")
	}
	return nil
}
