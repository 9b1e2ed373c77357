package form

// Row is one unit of the form, addressed by its ID.
type Row struct {
	ID       int      `yaml:"id" json:"id"`
	Text     string   `yaml:"text" json:"text"`
	Category Category `yaml:"category" json:"category"`
}

// SubField identifies the text or category part of a row.
type SubField int

// Sub-fields of a row.
const (
	SubFieldText SubField = iota
	SubFieldCategory
)

func (f SubField) String() string {
	switch f {
	case SubFieldText:
		return "text"
	case SubFieldCategory:
		return "category"
	}

	return "unknown"
}

// ErrorKey addresses a single sub-field of a single row.
type ErrorKey struct {
	RowID int
	Field SubField
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}
