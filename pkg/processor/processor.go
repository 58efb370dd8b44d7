package processor

import "github.com/mergekv/mergekv/pkg/record"

// Processor collapses an ordered group of rows sharing one logical key
// into a single result. It is only invoked for groups of two or more
// rows and must populate the result before returning.
type Processor interface {
	Process(rows []*record.Row, result *Result)
}

// Result is the reusable scratch a processor populates for one group
// at a time. It is reinitialized before every merge and consumed
// immediately after, so it carries no state across calls.
type Result struct {
	key     []byte
	columns map[string][]byte
}

// Init resets the scratch for a new group keyed by the physical key of
// the group's first record.
func (r *Result) Init(key []byte) {
	r.key = key
	if r.columns == nil {
		r.columns = make(map[string][]byte)
		return
	}
	for column := range r.columns {
		delete(r.columns, column)
	}
}

// Set stores a merged column value.
func (r *Result) Set(column string, value []byte) {
	r.columns[column] = value
}

func (r *Result) Key() []byte {
	return r.key
}

func (r *Result) Columns() map[string][]byte {
	return r.columns
}
