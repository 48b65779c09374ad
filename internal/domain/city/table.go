package city

import (
	"math"
	"sort"
)

// Row is a single city record. Numeric cells that are absent are missing and read as NaN.
type Row struct {
	City        string
	Country     string
	Region      string
	BudgetLevel string
	Description string
	values      map[string]float64
}

// NewRow creates a city record. The values map is copied.
func NewRow(cityName, country, region string, values map[string]float64) Row {
	v := make(map[string]float64, len(values))
	for k, val := range values {
		v[k] = val
	}
	return Row{City: cityName, Country: country, Region: region, values: v}
}

// Value returns the numeric cell for col, or NaN if the cell is missing.
func (r Row) Value(col string) float64 {
	v, ok := r.values[col]
	if !ok {
		return math.NaN()
	}
	return v
}

// ValueOr returns the numeric cell for col, or fallback if the cell is missing or NaN.
func (r Row) ValueOr(col string, fallback float64) float64 {
	v, ok := r.values[col]
	if !ok || math.IsNaN(v) {
		return fallback
	}
	return v
}

// Numerics returns a copy of all numeric cells.
func (r Row) Numerics() map[string]float64 {
	out := make(map[string]float64, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Key returns the natural key (city + country) used for deduplication.
func (r Row) Key() string { return r.City + "\x00" + r.Country }

// Table is an ordered, read-only collection of city rows.
type Table struct {
	columns []string
	present map[string]struct{}
	rows    []Row
}

// NewTable creates a table whose numeric columns are the union of the row cells.
func NewTable(rows []Row) *Table {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r.values {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return NewTableWithColumns(cols, rows)
}

// NewTableWithColumns creates a table with an explicit numeric column set.
// A declared column may be missing in every row; it still counts as present.
func NewTableWithColumns(columns []string, rows []Row) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		present: make(map[string]struct{}, len(columns)),
		rows:    make([]Row, len(rows)),
	}
	for _, c := range columns {
		if _, dup := t.present[c]; dup {
			continue
		}
		t.present[c] = struct{}{}
		t.columns = append(t.columns, c)
	}
	copy(t.rows, rows)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the row at position i.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns a copy of the row slice.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Columns returns the numeric column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the numeric column is present.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.present[name]
	return ok
}

// Column returns the values of a numeric column, NaN for missing cells.
func (t *Table) Column(name string) []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Value(name)
	}
	return out
}

// Available splits a declared feature list into present and missing columns,
// preserving the declared order.
func (t *Table) Available(declared []string) (present, missing []string) {
	for _, c := range declared {
		if t.HasColumn(c) {
			present = append(present, c)
		} else {
			missing = append(missing, c)
		}
	}
	return present, missing
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	rows := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return NewTableWithColumns(t.columns, rows)
}

// IndexOf returns the position of the first row with the given city name.
func (t *Table) IndexOf(cityName string) (int, bool) {
	for i, r := range t.rows {
		if r.City == cityName {
			return i, true
		}
	}
	return -1, false
}
