package components

import (
	"github.com/AntoineGS/dynform/internal/form"
)

// CategoryField is a single-select over the fixed category list, cycled with
// left and right.
type CategoryField struct {
	value   form.Category
	RowID   int
	focused bool
}

// NewCategoryField creates a selector for the row with the given id
func NewCategoryField(rowID int, value form.Category) CategoryField {
	return CategoryField{RowID: rowID, value: value}
}

// Focus marks the selector as focused
func (c *CategoryField) Focus() {
	c.focused = true
}

// Blur removes focus
func (c *CategoryField) Blur() {
	c.focused = false
}

// IsFocused returns whether focused
func (c *CategoryField) IsFocused() bool {
	return c.focused
}

// Value returns the selected category
func (c *CategoryField) Value() form.Category {
	return c.value
}

// SetValue sets the selected category
func (c *CategoryField) SetValue(v form.Category) {
	c.value = v
}

// Next selects the following category and returns it
func (c *CategoryField) Next() form.Category {
	c.value = c.value.Next()
	return c.value
}

// Prev selects the preceding category and returns it
func (c *CategoryField) Prev() form.Category {
	c.value = c.value.Prev()
	return c.value
}

// View renders the selector as "‹ Label ›".
func (c *CategoryField) View() string {
	return "‹ " + c.value.Label() + " ›"
}
