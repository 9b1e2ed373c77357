package form

import "strings"

// Validation messages.
const (
	MsgTextRequired     = "This field is required"
	MsgCategoryRequired = "Please select an option"
)

// Errors maps violated sub-fields to messages.
type Errors map[ErrorKey]string

// Valid reports whether there are no violations.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Get returns the message recorded for a sub-field, or "" when none.
func (e Errors) Get(id int, field SubField) string {
	return e[ErrorKey{RowID: id, Field: field}]
}

// Has reports whether a sub-field has a recorded violation.
func (e Errors) Has(id int, field SubField) bool {
	_, ok := e[ErrorKey{RowID: id, Field: field}]
	return ok
}

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Ordered returns the messages in row order, text before category. Entries
// whose row is not in rows are dropped.
func (e Errors) Ordered(rows []Row) []string {
	if len(e) == 0 {
		return nil
	}
	var msgs []string
	for _, r := range rows {
		for _, f := range []SubField{SubFieldText, SubFieldCategory} {
			if msg, ok := e[ErrorKey{RowID: r.ID, Field: f}]; ok {
				msgs = append(msgs, msg)
			}
		}
	}
	return msgs
}

// Validate checks every row and returns the violations. It does not modify rows.
func Validate(rows []Row) Errors {
	errs := make(Errors)
	for _, r := range rows {
		if strings.TrimSpace(r.Text) == "" {
			errs[ErrorKey{RowID: r.ID, Field: SubFieldText}] = MsgTextRequired
		}
		if !r.Category.IsSet() {
			errs[ErrorKey{RowID: r.ID, Field: SubFieldCategory}] = MsgCategoryRequired
		}
	}
	return errs
}
