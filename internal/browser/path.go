package browser

import "strings"

// RootPath is the path of the tree root.
const RootPath = "/"

// ResolvePath builds the absolute path from the navigation stack followed by
// the current leaf. An empty leaf means no leaf is entered. The root path is
// returned when both are empty.
func ResolvePath(stack []string, leaf string) string {
	if len(stack) == 0 && leaf == "" {
		return RootPath
	}
	var b strings.Builder
	for _, part := range stack {
		b.WriteByte('/')
		b.WriteString(part)
	}
	if leaf != "" {
		b.WriteByte('/')
		b.WriteString(leaf)
	}
	return b.String()
}
