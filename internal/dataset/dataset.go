package dataset

// Row maps a column name to the raw string value of one data line.
type Row map[string]string

// Dataset is the tabular description produced by a successful ingest.
// It is never mutated after construction; a new upload replaces it wholesale.
type Dataset struct {
	FileLabel    string   `json:"filename"`
	RowCount     int      `json:"rowCount"`
	Columns      []string `json:"columns"`
	TargetColumn string   `json:"targetColumn"`
	Features     []string `json:"features"`
	Rows         []Row    `json:"data"`
	Classes      []string `json:"classes"`

	duplicates []string
}

// DuplicateColumns lists header names that appeared more than once, in
// first-repeat order. For such names the last value on each line wins.
func (d *Dataset) DuplicateColumns() []string {
	if d == nil || len(d.duplicates) == 0 {
		return nil
	}
	out := make([]string, len(d.duplicates))
	copy(out, d.duplicates)
	return out
}

// Values returns the column's values in row order, empty strings included.
func (d *Dataset) Values(column string) []string {
	out := make([]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		out = append(out, r[column])
	}
	return out
}

// HasColumn reports whether name is one of the header columns.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}
