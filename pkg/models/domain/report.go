package domain

// ReportType selects which export flow runs: the revenue spreadsheet or
// the per-shop order spreadsheet.
type ReportType string

const (
	ReportTypeRevenue ReportType = "revenue"
	ReportTypeOrder   ReportType = "order"
)

// UpdatePolicy controls how a table lands on its destination range.
type UpdatePolicy string

const (
	// PolicyReplace clears the destination range before writing.
	PolicyReplace UpdatePolicy = "replace"
	// PolicyAppend writes after existing content without clearing.
	PolicyAppend UpdatePolicy = "append"
)

// TimeRange is a closed interval of whole-second UNIX timestamps.
type TimeRange struct {
	Start int64
	End   int64
}

// Table is one parsed report: a fixed column schema plus the rows a
// parser emitted for it. Rows are aligned to the column count; cells are
// strings or numbers depending on the source field.
type Table struct {
	Name    string
	Columns []string
	Range   string
	Policy  UpdatePolicy
	Rows    [][]any
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ReorderColumns permutes the schema and every row by the given 0-based
// index list. An out-of-range index is a programmer error and panics.
func (t *Table) ReorderColumns(indices []int) {
	t.project(indices)
}

// KeepColumns projects the table down to the listed indices, in that
// order. Same contract as ReorderColumns.
func (t *Table) KeepColumns(indices []int) {
	t.project(indices)
}

func (t *Table) project(indices []int) {
	columns := make([]string, len(indices))
	for i, idx := range indices {
		columns[i] = t.Columns[idx]
	}
	t.Columns = columns

	for n, row := range t.Rows {
		projected := make([]any, len(indices))
		for i, idx := range indices {
			projected[i] = row[idx]
		}
		t.Rows[n] = projected
	}
}
