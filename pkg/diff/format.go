package diff

import (
	"fmt"
	"strings"
)

// FormatFileDiff produces a unified-diff-style rendering of d.
//
// Output format:
//
//	--- a/path
//	+++ b/path
//	@@ line 3 @@
//	-old line
//	+new line
//
// Paths absent on one side use /dev/null for that side's header.
func FormatFileDiff(d FileDiff) string {
	var b strings.Builder

	before, after := "a/"+d.Path, "b/"+d.Path
	switch d.Status {
	case OnlyInFirst:
		after = "/dev/null"
	case OnlyInSecond:
		before = "/dev/null"
	}
	fmt.Fprintf(&b, "--- %s\n", before)
	fmt.Fprintf(&b, "+++ %s\n", after)

	last := -2
	for _, c := range d.Changes {
		if c.Pos != last+1 {
			fmt.Fprintf(&b, "@@ line %d @@\n", c.Pos+1)
		}
		last = c.Pos
		switch c.Kind {
		case Changed:
			fmt.Fprintf(&b, "-%s\n", c.Before)
			fmt.Fprintf(&b, "+%s\n", c.After)
		case Removed:
			fmt.Fprintf(&b, "-%s\n", c.Before)
		case Added:
			fmt.Fprintf(&b, "+%s\n", c.After)
		}
	}
	return b.String()
}

// FormatSummary produces one line per path:
//
//	M path
//	- path   (only in first)
//	+ path   (only in second)
func FormatSummary(diffs []FileDiff) string {
	var b strings.Builder
	for _, d := range diffs {
		marker := "M"
		switch d.Status {
		case OnlyInFirst:
			marker = "-"
		case OnlyInSecond:
			marker = "+"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, d.Path)
	}
	return b.String()
}
