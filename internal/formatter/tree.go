package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xlab/treeprint"
)

// maxInlineList is the longest scalar list kept on a single line.
const maxInlineList = 4

// FormatTree renders a structured payload as an ASCII tree rooted at ".".
// Map keys are sorted, list elements are labelled [i], and short lists of
// scalars are printed inline.
func FormatTree(v any) string {
	root := treeprint.New()
	switch t := PlainNumbers(v).(type) {
	case map[string]any:
		addEntries(root, t)
	case []any:
		addElements(root, t)
	default:
		root.AddNode(scalar(t))
	}
	return strings.TrimRight(root.String(), "\n")
}

func addEntries(branch treeprint.Tree, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		addValue(branch, k, m[k])
	}
}

func addElements(branch treeprint.Tree, list []any) {
	for i, elem := range list {
		addValue(branch, "["+strconv.Itoa(i)+"]", elem)
	}
}

func addValue(branch treeprint.Tree, label string, v any) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			branch.AddNode(label + ": {}")
			return
		}
		addEntries(branch.AddBranch(label), t)
	case []any:
		if inline, ok := inlineList(t); ok {
			branch.AddNode(label + ": " + inline)
			return
		}
		addElements(branch.AddBranch(label), t)
	default:
		branch.AddNode(label + ": " + scalar(t))
	}
}

// inlineList formats short lists of scalars as [a, b].
func inlineList(list []any) (string, bool) {
	if len(list) > maxInlineList {
		return "", false
	}
	parts := make([]string, len(list))
	for i, elem := range list {
		switch elem.(type) {
		case map[string]any, []any:
			return "", false
		}
		parts[i] = scalar(elem)
	}
	return "[" + strings.Join(parts, ", ") + "]", true
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
