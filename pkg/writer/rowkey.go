package writer

import (
	"github.com/mergekv/mergekv/pkg/processor"
	"github.com/mergekv/mergekv/pkg/record"
)

// rowKeyExtractor is the default KeyExtractor: logical key = physical
// key minus the interval suffix.
type rowKeyExtractor struct{}

func (rowKeyExtractor) LogicalKey(physical []byte) ([]byte, error) {
	return record.LogicalKey(physical)
}

// spanBuilder is the default WriteBuilder: the merged write's key
// spans from the first record's interval start to the last record's
// interval stop. Columns are copied out of the scratch result since
// the scratch is reused for the next group.
type spanBuilder struct{}

func (spanBuilder) Build(result *processor.Result, firstKey, lastKey []byte) (*record.Record, error) {
	key, err := record.SpanKey(firstKey, lastKey)
	if err != nil {
		return nil, err
	}
	rec := record.New(key)
	for column, value := range result.Columns() {
		rec.Columns[column] = value
	}
	return rec, nil
}
