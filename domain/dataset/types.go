package dataset

// Record is one dataset row keyed by column name
type Record map[string]string

// Dataset is an in-memory, integer-indexed table of records
type Dataset struct {
	Name    string
	Columns []string
	Records []Record
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Record returns the record at index i
func (d *Dataset) Record(i int) Record {
	return d.Records[i]
}

// Field returns the value of column name in record i
func (d *Dataset) Field(i int, name string) (string, bool) {
	if i < 0 || i >= len(d.Records) {
		return "", false
	}
	value, ok := d.Records[i][name]
	return value, ok
}

// AddColumn registers a column name if it is not known yet
func (d *Dataset) AddColumn(name string) {
	for _, column := range d.Columns {
		if column == name {
			return
		}
	}
	d.Columns = append(d.Columns, name)
}

// Append adds the records of other, merging column lists
func (d *Dataset) Append(other *Dataset) {
	for _, column := range other.Columns {
		d.AddColumn(column)
	}
	d.Records = append(d.Records, other.Records...)
}

// Subset returns a dataset holding the records at the given indices
func (d *Dataset) Subset(indices []int) *Dataset {
	out := &Dataset{
		Name:    d.Name,
		Columns: append([]string(nil), d.Columns...),
		Records: make([]Record, 0, len(indices)),
	}
	for _, i := range indices {
		out.Records = append(out.Records, d.Records[i])
	}
	return out
}
