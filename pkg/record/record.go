package record

import "encoding/json"

// Record is a single row write: a physical key plus the column values
// to store under it. The buffering layer treats columns as opaque.
type Record struct {
	Key     []byte
	Columns map[string][]byte
}

// Row is the read-shaped view of a record, the form merge processors
// consume. It shares storage with the record it was derived from and
// must not outlive the merge call.
type Row struct {
	Key     []byte
	Columns map[string][]byte
}

func New(key []byte) *Record {
	return &Record{
		Key:     key,
		Columns: make(map[string][]byte),
	}
}

// Set stores a column value on the record.
func (r *Record) Set(column string, value []byte) *Record {
	r.Columns[column] = value
	return r
}

// Row converts the record into its read-shaped form.
func (r *Record) Row() *Row {
	return &Row{
		Key:     r.Key,
		Columns: r.Columns,
	}
}

// Marshal encodes the record's columns for storage.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r.Columns)
}

// Unmarshal decodes stored column data into the record.
func (r *Record) Unmarshal(data []byte) error {
	return json.Unmarshal(data, &r.Columns)
}
