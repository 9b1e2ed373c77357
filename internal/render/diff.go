package render

import (
	"strings"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// NoChanges is returned by Diff when the live rows match the last submission.
const NoChanges = "No changes since last submission.\n"

// Diff returns a line diff of the heading rendering of the last submission
// against the live rows.
func Diff(submitted, live []form.Row) string {
	before := rowsBody(submitted)
	after := rowsBody(live)
	if before == after {
		return NoChanges
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sb strings.Builder
	sb.WriteString("--- submitted\n")
	sb.WriteString("+++ live\n")

	for _, diff := range diffs {
		lines := strings.Split(diff.Text, "\n")
		// Remove trailing empty string from split
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for _, line := range lines {
			switch diff.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString("- " + line + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+ " + line + "\n")
			case diffmatchpatch.DiffEqual:
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	return sb.String()
}
