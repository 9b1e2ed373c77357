// Package form implements the dynamic field list form: an ordered list of
// (text, category) rows with required-field validation and a snapshot of the
// last successful submission.
package form

import "fmt"

// Category is the single-select value of a row.
type Category string

// Selectable categories. CategoryNone is the unselected state.
const (
	CategoryNone      Category = ""
	CategoryPersonal  Category = "personal"
	CategoryWork      Category = "work"
	CategoryEducation Category = "education"
	CategoryOther     Category = "other"
)

var categoryOrder = []Category{
	CategoryNone,
	CategoryPersonal,
	CategoryWork,
	CategoryEducation,
	CategoryOther,
}

// Categories returns every category in display order, starting with CategoryNone.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Label returns the display label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryNone:
		return "Select category"
	case CategoryPersonal:
		return "Personal"
	case CategoryWork:
		return "Work"
	case CategoryEducation:
		return "Education"
	case CategoryOther:
		return "Other"
	}

	return string(c)
}

// IsSet reports whether a category has been selected.
func (c Category) IsSet() bool {
	return c != CategoryNone
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Next returns the category after c in display order, wrapping around.
func (c Category) Next() Category {
	return c.step(1)
}

// Prev returns the category before c in display order, wrapping around.
func (c Category) Prev() Category {
	return c.step(-1)
}

func (c Category) step(delta int) Category {
	idx := 0
	for i, known := range categoryOrder {
		if c == known {
			idx = i
			break
		}
	}
	n := len(categoryOrder)
	return categoryOrder[((idx+delta)%n+n)%n]
}

// ParseCategory converts a wire value (as posted by a select element or read
// from YAML) into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return CategoryNone, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
