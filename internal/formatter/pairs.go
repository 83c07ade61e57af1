package formatter

import (
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// Pair is a labelled value, e.g. one field of a stat snapshot.
type Pair struct {
	Key   string
	Value string
}

// AlignPairs renders pairs as "key : value" lines with the separator aligned
// on the widest key. Values longer than maxWidth columns are truncated; a
// maxWidth <= 0 disables truncation.
func AlignPairs(pairs []Pair, maxWidth int) []string {
	keyWidth := 0
	for _, p := range pairs {
		if w := runewidth.StringWidth(p.Key); w > keyWidth {
			keyWidth = w
		}
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		var b strings.Builder
		b.WriteString(runewidth.FillRight(p.Key, keyWidth))
		b.WriteString(" : ")
		b.WriteString(p.Value)
		line := b.String()
		if maxWidth > 0 && runewidth.StringWidth(line) > maxWidth {
			line = runewidth.Truncate(line, maxWidth, "…")
		}
		lines = append(lines, line)
	}
	return lines
}
