package browser

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/oakwood-commons/zkx/internal/formatter"
	"github.com/oakwood-commons/zkx/internal/nodedata"
	"github.com/oakwood-commons/zkx/internal/store"
)

// Evaluator runs a query expression against a payload value.
type Evaluator interface {
	Evaluate(expr string, data any) (any, error)
}

// handle runs one command through the tab's state machine. Commands a mode
// does not recognize leave the tab untouched. Tab switching and quitting are
// handled by the session before it gets here.
func (t *Tab) handle(ctx context.Context, client store.Client, eval Evaluator, cmd Command) {
	switch t.mode {
	case Browsing:
		t.handleBrowsing(ctx, client, cmd)
	case ReadingData:
		t.handleReading(cmd)
	case QueryingData:
		t.handleQuerying(eval, cmd)
	case CreatingNodePath, CreatingNodeData:
		t.handleCreating(ctx, client, cmd)
	case EditingData:
		t.handleEditing(ctx, client, cmd)
	case DeleteNode:
		t.handleDeleteTarget(cmd)
	case ConfirmingDelete:
		t.handleConfirmDelete(ctx, client, cmd)
	}
}

func (t *Tab) handleBrowsing(ctx context.Context, client store.Client, cmd Command) {
	switch cmd.Kind {
	case CmdMoveDown, CmdMoveUp:
		var moved bool
		if cmd.Kind == CmdMoveDown {
			moved = t.selection.Next(len(t.children))
		} else {
			moved = t.selection.Previous(len(t.children))
		}
		if !moved {
			t.leaf = ""
			return
		}
		i, _ := t.selection.Index()
		t.selectIndex(i)
		if t.autoLoadStat {
			t.refreshStat(ctx, client)
		}

	case CmdToggleStatAutoLoad:
		t.autoLoadStat = !t.autoLoadStat
		if t.autoLoadStat {
			t.refreshStat(ctx, client)
		} else {
			t.stat = nil
		}

	case CmdEnter:
		t.enter(ctx, client)

	case CmdBack:
		t.back(ctx, client)

	case CmdRefresh:
		t.relist(ctx, client)

	case CmdOpenRead:
		if t.loadNodeData(ctx, client) {
			t.mode = ReadingData
		}

	case CmdOpenCreate:
		t.pathBuf = t.Path()
		t.dataBuf = ""
		t.mode = CreatingNodePath

	case CmdOpenDelete:
		t.pathBuf = t.Path()
		t.confirmBuf = ""
		t.mode = DeleteNode
	}
}

// enter descends into the selected child when it has children of its own.
func (t *Tab) enter(ctx context.Context, client store.Client) {
	name, ok := t.Selected()
	if !ok {
		t.message = msgNoSelection
		return
	}
	children, ok := t.fetchChildren(ctx, client, ResolvePath(t.stack, name))
	if !ok {
		return
	}
	if len(children) == 0 {
		t.message = msgNoChildren
		return
	}
	t.stack = append(t.stack, name)
	t.children = children
	t.clearSelection()
	t.selectIndex(0)
	if t.autoLoadStat {
		t.refreshStat(ctx, client)
	}
}

// back pops the leaf if one is entered, otherwise the top of the stack.
func (t *Tab) back(ctx context.Context, client store.Client) {
	if len(t.stack) == 0 && t.leaf == "" {
		return
	}
	if t.leaf != "" {
		t.leaf = ""
	} else {
		t.stack = t.stack[:len(t.stack)-1]
	}
	t.clearSelection()
	t.stat = nil
	t.relist(ctx, client)
}

func (t *Tab) handleReading(cmd Command) {
	switch cmd.Kind {
	case CmdAsText:
		t.nodeData = t.nodeData.ToText()
	case CmdAsStructured:
		t.nodeData = t.nodeData.ToStructured()
	case CmdAsRaw:
		t.nodeData = t.nodeData.ToRaw()
	case CmdCancel:
		t.queryResult = nil
		t.mode = Browsing
	case CmdEdit:
		t.nodeData = t.nodeData.ToText()
		t.dataBuf = t.nodeData.String()
		t.mode = EditingData
	case CmdQuery:
		if t.queryBuf == "" {
			t.queryBuf = "_"
		}
		t.mode = QueryingData
	}
}

func (t *Tab) handleQuerying(eval Evaluator, cmd Command) {
	switch cmd.Kind {
	case CmdInsert:
		t.queryBuf += string(cmd.Char)
	case CmdBackspace:
		t.queryBuf = dropLastRune(t.queryBuf)
	case CmdCancel:
		t.mode = ReadingData
	case CmdSubmit:
		if eval == nil {
			t.message = msgNoQuerySystem
			return
		}
		result, err := eval.Evaluate(t.queryBuf, queryInput(t.nodeData))
		if err != nil {
			t.message = fmt.Sprintf("Query failed : %v", err)
			return
		}
		res := nodedata.Structured(result)
		t.queryResult = &res
		t.message = fmt.Sprintf("Query %s evaluated", t.queryBuf)
		t.mode = ReadingData
	}
}

// queryInput is the structured form of the payload when it parses, else its
// text. Numbers are converted to native types for the evaluator.
func queryInput(d nodedata.NodeData) any {
	if v, ok := d.ToStructured().Value(); ok {
		return formatter.PlainNumbers(v)
	}
	return d.ToText().String()
}

func (t *Tab) handleCreating(ctx context.Context, client store.Client, cmd Command) {
	field := &t.pathBuf
	if t.mode == CreatingNodeData {
		field = &t.dataBuf
	}
	switch cmd.Kind {
	case CmdInsert:
		*field += string(cmd.Char)
	case CmdBackspace:
		*field = dropLastRune(*field)
	case CmdSwitchField:
		if t.mode == CreatingNodePath {
			t.mode = CreatingNodeData
		} else {
			t.mode = CreatingNodePath
		}
	case CmdSubmit:
		t.createNode(ctx, client)
	case CmdCancel:
		t.mode = Browsing
	}
}

func (t *Tab) handleEditing(ctx context.Context, client store.Client, cmd Command) {
	switch cmd.Kind {
	case CmdInsert:
		t.dataBuf += string(cmd.Char)
	case CmdBackspace:
		t.dataBuf = dropLastRune(t.dataBuf)
	case CmdCancel:
		t.mode = ReadingData
		t.loadNodeData(ctx, client)
	case CmdSubmit:
		t.setData(ctx, client)
		t.mode = ReadingData
		t.loadNodeData(ctx, client)
	}
}

func (t *Tab) handleDeleteTarget(cmd Command) {
	switch cmd.Kind {
	case CmdInsert:
		t.pathBuf += string(cmd.Char)
	case CmdBackspace:
		t.pathBuf = dropLastRune(t.pathBuf)
	case CmdCancel:
		t.mode = Browsing
	case CmdSubmit:
		t.mode = ConfirmingDelete
	}
}

func (t *Tab) handleConfirmDelete(ctx context.Context, client store.Client, cmd Command) {
	switch cmd.Kind {
	case CmdInsert:
		t.confirmBuf += string(cmd.Char)
	case CmdBackspace:
		t.confirmBuf = dropLastRune(t.confirmBuf)
	case CmdCancel:
		t.mode = DeleteNode
	case CmdSubmit:
		confirmation := t.confirmBuf
		t.confirmBuf = ""
		if confirmation != ConfirmationString {
			t.message = msgBadConfirm
			return
		}
		t.deleteNode(ctx, client)
		t.clearSelection()
		t.stat = nil
		t.refreshChildren(ctx, client)
		t.mode = Browsing
	}
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
