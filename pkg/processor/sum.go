package processor

import (
	"encoding/binary"

	"github.com/mergekv/mergekv/pkg/record"
)

// Sum treats every column value as a big-endian uint64 and accumulates
// it across the group. Values of any other width are passed through
// from the latest row that set them.
type Sum struct{}

func (Sum) Process(rows []*record.Row, result *Result) {
	totals := make(map[string]uint64)
	for _, row := range rows {
		for column, value := range row.Columns {
			if len(value) != 8 {
				result.Set(column, value)
				continue
			}
			totals[column] += binary.BigEndian.Uint64(value)
		}
	}
	for column, total := range totals {
		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, total)
		result.Set(column, value)
	}
}
