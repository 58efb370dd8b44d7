package processor

import "github.com/mergekv/mergekv/pkg/record"

// Overwrite keeps, per column, the value of the latest row that set it.
type Overwrite struct{}

func (Overwrite) Process(rows []*record.Row, result *Result) {
	for _, row := range rows {
		for column, value := range row.Columns {
			result.Set(column, value)
		}
	}
}
