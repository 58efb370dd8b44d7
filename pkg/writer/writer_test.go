package writer_test

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/mergekv/mergekv/pkg/db"
	"github.com/mergekv/mergekv/pkg/processor"
	"github.com/mergekv/mergekv/pkg/record"
	"github.com/mergekv/mergekv/pkg/utils"
	"github.com/mergekv/mergekv/pkg/writer"
)

// captureStore records every submitted write, or rejects all of them
// when fail is set.
type captureStore struct {
	recs []*record.Record
	fail error
}

func (s *captureStore) Write(rec *record.Record) error {
	if s.fail != nil {
		return s.fail
	}
	s.recs = append(s.recs, rec)
	return nil
}

// recordingProcessor counts merge invocations and captures the row
// sequence of each one.
type recordingProcessor struct {
	inner processor.Processor
	calls [][]*record.Row
}

func (p *recordingProcessor) Process(rows []*record.Row, result *processor.Result) {
	p.calls = append(p.calls, append([]*record.Row{}, rows...))
	p.inner.Process(rows, result)
}

func newWriter(t *testing.T, store writer.Store, proc processor.Processor, maxBuffered int) *writer.BufferedWriter {
	t.Helper()
	w, err := writer.NewBufferedWriter(store, proc, writer.Config{MaxBufferedRecords: maxBuffered})
	require.NoError(t, err)
	return w
}

func rec(logical string, seq uint64) *record.Record {
	return record.New(record.NewKey([]byte(logical), seq)).Set("name", []byte(logical))
}

func TestWriterConfigValidation(t *testing.T) {
	store := &captureStore{}

	_, err := writer.NewBufferedWriter(nil, processor.Overwrite{}, writer.Config{MaxBufferedRecords: 1})
	require.ErrorIs(t, err, utils.ErrInvalidConfig)

	_, err = writer.NewBufferedWriter(store, nil, writer.Config{MaxBufferedRecords: 1})
	require.ErrorIs(t, err, utils.ErrInvalidConfig)

	_, err = writer.NewBufferedWriter(store, processor.Overwrite{}, writer.Config{})
	require.ErrorIs(t, err, utils.ErrInvalidConfig)
}

func TestWriterBuffersUniqueKeys(t *testing.T) {
	store := &captureStore{}
	w := newWriter(t, store, processor.Overwrite{}, 10)

	for i, key := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, w.Write(rec(key, uint64(i+1))))
	}

	require.Equal(t, 5, w.Buffered())
	require.Equal(t, int64(5), w.QueuedCount())
	require.Equal(t, int64(0), w.WrittenCount())
	require.Empty(t, store.recs)
}

func TestPassThrough(t *testing.T) {
	store := &captureStore{}
	proc := &recordingProcessor{inner: processor.Overwrite{}}
	w := newWriter(t, store, proc, 10)

	single := rec("a", 1)
	require.NoError(t, w.Write(single))
	require.NoError(t, w.Flush())

	// a size-1 group is forwarded unmodified, no merge invoked
	require.Len(t, store.recs, 1)
	require.Same(t, single, store.recs[0])
	require.Empty(t, proc.calls)
	require.Equal(t, int64(1), w.WrittenCount())
}

func TestMergedFlush(t *testing.T) {
	store := &captureStore{}
	proc := &recordingProcessor{inner: processor.Overwrite{}}
	w := newWriter(t, store, proc, 10)

	recs := []*record.Record{rec("a", 1), rec("a", 2), rec("a", 3)}
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Flush())

	// exactly one write for the whole group
	require.Len(t, store.recs, 1)
	require.Equal(t, int64(1), w.WrittenCount())
	require.Equal(t, 0, w.Buffered())

	// processor saw all rows once, in submission order
	require.Len(t, proc.calls, 1)
	require.Len(t, proc.calls[0], 3)
	for i, row := range proc.calls[0] {
		require.Equal(t, recs[i].Key, row.Key)
	}

	// the merged key spans first..last record
	got, err := record.LogicalKey(store.recs[0].Key)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), got)
	start, stop, err := record.Interval(store.recs[0].Key)
	require.NoError(t, err)
	require.Equal(t, uint64(1), start)
	require.Equal(t, uint64(3), stop)
}

func TestEvictionScenario(t *testing.T) {
	store := &captureStore{}
	proc := &recordingProcessor{inner: processor.Overwrite{}}
	w := newWriter(t, store, proc, 3)

	require.NoError(t, w.Write(rec("a", 1)))
	require.NoError(t, w.Write(rec("a", 2)))
	require.NoError(t, w.Write(rec("b", 3)))
	require.Equal(t, 3, w.Buffered())
	require.Empty(t, store.recs)

	// the 4th insert brings the count over the limit: the oldest
	// group (a) is evicted and flushed as one merged write
	require.NoError(t, w.Write(rec("c", 4)))
	require.Equal(t, 2, w.Buffered())
	require.Len(t, store.recs, 1)
	start, stop, err := record.Interval(store.recs[0].Key)
	require.NoError(t, err)
	require.Equal(t, uint64(1), start)
	require.Equal(t, uint64(2), stop)

	var keys []string
	w.PendingGroups(func(key []byte, records []*record.Record) bool {
		keys = append(keys, string(key))
		require.Len(t, records, 1)
		return true
	})
	require.Equal(t, []string{"b", "c"}, keys)

	// a re-arriving evicted key starts a fresh group
	require.NoError(t, w.Write(rec("a", 5)))
	require.Equal(t, 3, w.Buffered())
	keys = nil
	w.PendingGroups(func(key []byte, records []*record.Record) bool {
		keys = append(keys, string(key))
		return true
	})
	require.Equal(t, []string{"b", "c", "a"}, keys)

	require.NoError(t, w.Flush())
	require.Equal(t, 0, w.Buffered())
	require.Len(t, store.recs, 4)
	require.Equal(t, int64(5), w.QueuedCount())
	require.Equal(t, int64(4), w.WrittenCount())
}

func TestEvictionOldestFirst(t *testing.T) {
	store := &captureStore{}
	w := newWriter(t, store, processor.Overwrite{}, 1)

	require.NoError(t, w.Write(rec("a", 1)))
	require.NoError(t, w.Write(rec("b", 2)))
	require.NoError(t, w.Write(rec("c", 3)))

	require.Equal(t, 1, w.Buffered())
	require.Len(t, store.recs, 2)
	logical, err := record.LogicalKey(store.recs[0].Key)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), logical)
	logical, err = record.LogicalKey(store.recs[1].Key)
	require.NoError(t, err)
	require.Equal(t, []byte("b"), logical)
}

func TestFlushEmptyBuffer(t *testing.T) {
	store := &captureStore{}
	w := newWriter(t, store, processor.Overwrite{}, 10)

	require.NoError(t, w.Flush())
	require.Empty(t, store.recs)
	require.Equal(t, int64(0), w.WrittenCount())
}

func TestResetStats(t *testing.T) {
	store := &captureStore{}
	w := newWriter(t, store, processor.Overwrite{}, 10)

	require.NoError(t, w.Write(rec("a", 1)))
	require.NoError(t, w.Write(rec("a", 2)))

	w.ResetStats()
	require.Equal(t, int64(0), w.QueuedCount())
	require.Equal(t, int64(0), w.WrittenCount())
	require.Equal(t, 2, w.Buffered())

	// grouping is unaffected by a stats reset
	require.NoError(t, w.Write(rec("a", 3)))
	require.NoError(t, w.Flush())
	require.Len(t, store.recs, 1)
	start, stop, err := record.Interval(store.recs[0].Key)
	require.NoError(t, err)
	require.Equal(t, uint64(1), start)
	require.Equal(t, uint64(3), stop)
}

func TestWriteFailure(t *testing.T) {
	cause := errors.New("disk full")
	store := &captureStore{fail: cause}
	w := newWriter(t, store, processor.Overwrite{}, 10)

	require.NoError(t, w.Write(rec("a", 1)))
	err := w.Flush()
	require.Error(t, err)
	require.Equal(t, cause, errors.Cause(err))

	// the failed group is already removed, not retried
	require.Equal(t, 0, w.Buffered())
}

func TestWriteFailureDuringEviction(t *testing.T) {
	cause := errors.New("disk full")
	store := &captureStore{}
	w := newWriter(t, store, processor.Overwrite{}, 1)

	require.NoError(t, w.Write(rec("a", 1)))

	store.fail = cause
	err := w.Write(rec("b", 2))
	require.Error(t, err)
	require.Equal(t, cause, errors.Cause(err))

	// the evicted group is lost; the newly inserted one survives
	require.Equal(t, 1, w.Buffered())
	var keys []string
	w.PendingGroups(func(key []byte, records []*record.Record) bool {
		keys = append(keys, string(key))
		return true
	})
	require.Equal(t, []string{"b"}, keys)
}

func TestWriterAgainstMemoryDB(t *testing.T) {
	mdb := db.NewMemoryDB()
	w := newWriter(t, writer.NewDBStore(mdb), processor.Sum{}, 100)

	one := make([]byte, 8)
	binary.BigEndian.PutUint64(one, 1)
	for seq := uint64(1); seq <= 10; seq++ {
		r := record.New(record.NewKey([]byte("counter"), seq)).Set("hits", one)
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Flush())

	// one merged row in the store, holding the accumulated count
	require.Equal(t, 1, mdb.Len())
	iter := mdb.NewIterator([]byte("counter"), nil)
	defer iter.Release()
	require.True(t, iter.Next())

	stored := record.New(iter.Key())
	require.NoError(t, stored.Unmarshal(iter.Value()))
	require.Equal(t, uint64(10), binary.BigEndian.Uint64(stored.Columns["hits"]))

	start, stop, err := record.Interval(iter.Key())
	require.NoError(t, err)
	require.Equal(t, uint64(1), start)
	require.Equal(t, uint64(10), stop)
	require.False(t, iter.Next())
}
