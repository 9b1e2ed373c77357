package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		want Errors
		name string
		rows []Row
	}{
		{
			name: "complete_row",
			rows: []Row{{ID: 1, Text: "Alice", Category: CategoryPersonal}},
			want: Errors{},
		},
		{
			name: "empty_row",
			rows: []Row{{ID: 1}},
			want: Errors{
				{RowID: 1, Field: SubFieldText}:     MsgTextRequired,
				{RowID: 1, Field: SubFieldCategory}: MsgCategoryRequired,
			},
		},
		{
			name: "whitespace_text",
			rows: []Row{{ID: 7, Text: " \t\n ", Category: CategoryWork}},
			want: Errors{{RowID: 7, Field: SubFieldText}: MsgTextRequired},
		},
		{
			name: "padded_text_is_valid",
			rows: []Row{{ID: 7, Text: "  x  ", Category: CategoryWork}},
			want: Errors{},
		},
		{
			name: "missing_category_only",
			rows: []Row{{ID: 3, Text: "x"}},
			want: Errors{{RowID: 3, Field: SubFieldCategory}: MsgCategoryRequired},
		},
		{
			name: "mixed_rows",
			rows: []Row{
				{ID: 1, Text: "A", Category: CategoryWork},
				{ID: 2, Text: "", Category: CategoryOther},
			},
			want: Errors{{RowID: 2, Field: SubFieldText}: MsgTextRequired},
		},
		{
			name: "no_rows",
			rows: nil,
			want: Errors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.rows)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
			if got.Valid() != (len(tt.want) == 0) {
				t.Errorf("Valid() = %v, want %v", got.Valid(), len(tt.want) == 0)
			}
		})
	}
}

func TestValidate_Deterministic(t *testing.T) {
	rows := []Row{
		{ID: 1, Text: "", Category: CategoryNone},
		{ID: 4, Text: "ok", Category: CategoryNone},
		{ID: 9, Text: " ", Category: CategoryEducation},
	}

	first := Validate(rows)
	second := Validate(append([]Row(nil), rows...))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Validate() not deterministic (-first +second):\n%s", diff)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	rows := []Row{{ID: 1, Text: "  padded  "}}
	want := append([]Row(nil), rows...)

	Validate(rows)

	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Validate() mutated input (-want +got):\n%s", diff)
	}
}

func TestErrors_Ordered(t *testing.T) {
	rows := []Row{{ID: 5}, {ID: 2}}
	errs := Errors{
		{RowID: 2, Field: SubFieldCategory}: "c2",
		{RowID: 5, Field: SubFieldCategory}: "c5",
		{RowID: 2, Field: SubFieldText}:     "t2",
		{RowID: 99, Field: SubFieldText}:    "orphan",
	}

	want := []string{"c5", "t2", "c2"}
	if diff := cmp.Diff(want, errs.Ordered(rows)); diff != "" {
		t.Errorf("Ordered() mismatch (-want +got):\n%s", diff)
	}
	if got := (Errors{}).Ordered(rows); got != nil {
		t.Errorf("Ordered() on empty errors = %v, want nil", got)
	}
}

func TestErrors_GetHas(t *testing.T) {
	errs := Errors{{RowID: 1, Field: SubFieldText}: MsgTextRequired}

	if got := errs.Get(1, SubFieldText); got != MsgTextRequired {
		t.Errorf("Get(1, text) = %q, want %q", got, MsgTextRequired)
	}
	if got := errs.Get(1, SubFieldCategory); got != "" {
		t.Errorf("Get(1, category) = %q, want empty", got)
	}
	if errs.Has(2, SubFieldText) {
		t.Error("Has(2, text) = true, want false")
	}
}
