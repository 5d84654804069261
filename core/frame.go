package core

import (
	"fmt"
	"sort"
)

// Table is a columnar view over uniform rows: column name to values aligned
// by input order. Columns are kept sorted so generated statements and exports
// are deterministic.
type Table struct {
	Columns []string
	Data    map[string][]any
}

// Flatten converts a list of uniform row maps into a Table. The column set is
// taken from the first row; every row must carry exactly that set. An empty
// input is not a valid table and fails with ErrNoData.
func Flatten(rows []map[string]any) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	data := make(map[string][]any, len(cols))
	for _, c := range cols {
		data[c] = make([]any, 0, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), len(cols))
		}
		for _, c := range cols {
			v, present := row[c]
			if !present {
				return nil, fmt.Errorf("row %d missing column %q", i, c)
			}
			data[c] = append(data[c], v)
		}
	}
	return &Table{Columns: cols, Data: data}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Data[t.Columns[0]])
}

// Row materializes row i as a map.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.Columns))
	for _, c := range t.Columns {
		row[c] = t.Data[c][i]
	}
	return row
}

// RowMaps materializes every row, preserving input order.
func (t *Table) RowMaps() []map[string]any {
	rows := make([]map[string]any, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// JoinOnKey inner-joins issue-level rows against (issue, sprint)-level rows
// on the given key column. Each right row is merged onto its matching left
// row, with right columns winning on overlap. Either side empty means an
// empty result, never an error: a run can legitimately find no sprint rows.
func JoinOnKey(left, right []map[string]any, key string) []map[string]any {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	index := make(map[any]map[string]any, len(left))
	for _, row := range left {
		index[row[key]] = row
	}
	out := make([]map[string]any, 0, len(right))
	for _, row := range right {
		base, ok := index[row[key]]
		if !ok {
			continue
		}
		merged := make(map[string]any, len(base)+len(row))
		for k, v := range base {
			merged[k] = v
		}
		for k, v := range row {
			merged[k] = v
		}
		out = append(out, merged)
	}
	return out
}
