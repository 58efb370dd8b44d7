package writer

import (
	"github.com/mergekv/mergekv/pkg/db"
	"github.com/mergekv/mergekv/pkg/processor"
	"github.com/mergekv/mergekv/pkg/record"
)

// Store submits one write to the backing row store. The writer calls
// it once per flushed group and never retries.
type Store interface {
	Write(rec *record.Record) error
}

// KeyExtractor derives the logical grouping key from a record's
// physical key. Must be pure and deterministic.
type KeyExtractor interface {
	LogicalKey(physical []byte) ([]byte, error)
}

// WriteBuilder encodes a merge result plus the superseded key range
// into the single outgoing write of a merged group.
type WriteBuilder interface {
	Build(result *processor.Result, firstKey, lastKey []byte) (*record.Record, error)
}

// DBStore binds the writer to a key-value db, encoding record columns
// with the record codec.
type DBStore struct {
	db db.KeyValueWriter
}

func NewDBStore(db db.KeyValueWriter) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Write(rec *record.Record) error {
	value, err := rec.Marshal()
	if err != nil {
		return err
	}
	return s.db.Put(rec.Key, value)
}
