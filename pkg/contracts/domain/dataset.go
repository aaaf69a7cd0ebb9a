package domain

// Dataset is the full, ordered collection of startup records loaded from a
// single source file. It is never modified after loading.
type Dataset struct {
	// Source is the file the records were read from.
	Source string

	// Columns lists the header columns recognised in the source, in file order.
	Columns []Column

	records []StartupRecord
}

// NewDataset wraps records. The slice is owned by the dataset afterwards.
func NewDataset(source string, columns []Column, records []StartupRecord) *Dataset {
	return &Dataset{
		Source:  source,
		Columns: columns,
		records: records,
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record. The pointer must be treated as read-only.
func (d *Dataset) At(i int) *StartupRecord {
	return &d.records[i]
}

// HasColumn reports whether the source header contained col.
func (d *Dataset) HasColumn(col Column) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// All returns a subset covering every record.
func (d *Dataset) All() Subset {
	rows := make([]int, d.Len())
	for i := range rows {
		rows[i] = i
	}
	return Subset{Name: AllRegions, source: d, rows: rows}
}

// AllRegions names the subset that spans the whole dataset.
const AllRegions = "All"

// Subset is a named, non-owning view over a Dataset. It stores row indices
// into the dataset rather than copies of the records.
type Subset struct {
	Name   string
	source *Dataset
	rows   []int
}

// NewSubset builds a view over rows of d. Indices are not copied.
func NewSubset(name string, d *Dataset, rows []int) Subset {
	return Subset{Name: name, source: d, rows: rows}
}

// Len returns the number of records in the view.
func (s Subset) Len() int {
	return len(s.rows)
}

// At returns the i-th record of the view.
func (s Subset) At(i int) *StartupRecord {
	return s.source.At(s.rows[i])
}

// Rows returns a copy of the dataset indices covered by the view.
func (s Subset) Rows() []int {
	out := make([]int, len(s.rows))
	copy(out, s.rows)
	return out
}

// Source returns the backing dataset.
func (s Subset) Source() *Dataset {
	return s.source
}

// Each calls fn for every record in order until fn returns false.
func (s Subset) Each(fn func(rec *StartupRecord) bool) {
	for _, idx := range s.rows {
		if !fn(s.source.At(idx)) {
			return
		}
	}
}

// Filter returns a narrower view keeping records for which keep is true.
func (s Subset) Filter(name string, keep func(rec *StartupRecord) bool) Subset {
	rows := make([]int, 0, len(s.rows))
	for _, idx := range s.rows {
		if keep(s.source.At(idx)) {
			rows = append(rows, idx)
		}
	}
	return Subset{Name: name, source: s.source, rows: rows}
}
