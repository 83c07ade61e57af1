package browser

import (
	"github.com/oakwood-commons/zkx/internal/nodedata"
	"github.com/oakwood-commons/zkx/internal/store"
)

// ConfirmationString must be typed exactly to authorize a delete.
const ConfirmationString = "DELETE"

// Tab is one independent browsing context. Its exported methods only read
// state; all mutation goes through Session.Dispatch.
type Tab struct {
	children  []string
	selection Selection
	stack     []string
	leaf      string
	stat      *store.Stat
	message   string
	mode      TabMode

	nodeData    nodedata.NodeData
	queryResult *nodedata.NodeData

	pathBuf    string
	dataBuf    string
	confirmBuf string
	queryBuf   string

	autoLoadStat bool
}

// NewTab returns a tab at the root with stat auto-loading enabled.
func NewTab() *Tab {
	return &Tab{mode: Browsing, autoLoadStat: true}
}

// Path is the absolute path of the current node: the stack plus the leaf.
func (t *Tab) Path() string {
	return ResolvePath(t.stack, t.leaf)
}

// Dir is the path whose children are listed.
func (t *Tab) Dir() string {
	return ResolvePath(t.stack, "")
}

func (t *Tab) Children() []string {
	return append([]string(nil), t.children...)
}

func (t *Tab) Selection() (int, bool) {
	return t.selection.Index()
}

// Selected returns the name of the selected child.
func (t *Tab) Selected() (string, bool) {
	i, ok := t.selection.Index()
	if !ok || i >= len(t.children) {
		return "", false
	}
	return t.children[i], true
}

func (t *Tab) Stack() []string {
	return append([]string(nil), t.stack...)
}

// Leaf returns the entered but not pushed path component, if any.
func (t *Tab) Leaf() (string, bool) {
	return t.leaf, t.leaf != ""
}

func (t *Tab) Stat() *store.Stat {
	if t.stat == nil {
		return nil
	}
	st := *t.stat
	return &st
}

func (t *Tab) Message() string { return t.message }
func (t *Tab) Mode() TabMode { return t.mode }
func (t *Tab) NodeData() nodedata.NodeData { return t.nodeData }
func (t *Tab) PathBuf() string { return t.pathBuf }
func (t *Tab) DataBuf() string { return t.dataBuf }
func (t *Tab) ConfirmBuf() string { return t.confirmBuf }
func (t *Tab) QueryBuf() string { return t.queryBuf }
func (t *Tab) AutoLoadStat() bool { return t.autoLoadStat }
func (t *Tab) QueryResult() *nodedata.NodeData { return t.queryResult }

// selectIndex moves the cursor and keeps the leaf in sync with it.
func (t *Tab) selectIndex(i int) bool {
	if !t.selection.Select(i, len(t.children)) {
		return false
	}
	t.leaf = t.children[i]
	return true
}

func (t *Tab) clearSelection() {
	t.selection.Clear()
	t.leaf = ""
}

// replaceChildren swaps the listing. The selection follows the selected name
// if it is still listed and is cleared otherwise.
func (t *Tab) replaceChildren(children []string) {
	selected, had := t.Selected()
	t.children = children
	if had {
		for i, name := range children {
			if name == selected {
				t.selectIndex(i)
				return
			}
		}
	}
	t.clearSelection()
}

// Title names the tab by the directory level it lists.
func (t *Tab) Title() string {
	return t.Dir()
}
