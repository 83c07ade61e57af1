package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/oakwood-commons/zkx/internal/nodedata"
	"github.com/oakwood-commons/zkx/internal/store"
	"github.com/oakwood-commons/zkx/pkg/logger"
)

// ErrNoClient is reported when a command needs the store before connecting.
var ErrNoClient = errors.New("no store client")

const (
	msgNoClient      = "Failed to get store client"
	msgNoChildren    = "Node does not have children nodes"
	msgBadConfirm    = "Incorrect confirmation string"
	msgNoSelection   = "No node selected"
	msgNoQuerySystem = "Query support is not available"
)

func (t *Tab) requireClient(ctx context.Context, client store.Client) bool {
	if client == nil {
		logger.FromContext(ctx).Error(ErrNoClient, "store call skipped", "path", t.Path())
		t.message = msgNoClient
		return false
	}
	return true
}

// fetchChildren lists path and reports failures in the tab message.
func (t *Tab) fetchChildren(ctx context.Context, client store.Client, path string) ([]string, bool) {
	if !t.requireClient(ctx, client) {
		return nil, false
	}
	logger.FromContext(ctx).V(1).Info("store call", "op", "children", "path", path)
	children, err := client.Children(ctx, path)
	if err != nil {
		t.fail(ctx, "children", path, err)
		t.message = fmt.Sprintf("Failed to fetch children of %s : %v", path, err)
		return nil, false
	}
	return children, true
}

// refreshChildren re-lists the current directory level.
func (t *Tab) refreshChildren(ctx context.Context, client store.Client) bool {
	children, ok := t.fetchChildren(ctx, client, t.Dir())
	if !ok {
		return false
	}
	t.replaceChildren(children)
	return true
}

// relist refreshes the listing and notes an empty directory in the message.
func (t *Tab) relist(ctx context.Context, client store.Client) {
	if t.refreshChildren(ctx, client) && len(t.children) == 0 {
		t.message = msgNoChildren
	}
}

func (t *Tab) refreshStat(ctx context.Context, client store.Client) {
	if !t.requireClient(ctx, client) {
		return
	}
	path := t.Path()
	logger.FromContext(ctx).V(1).Info("store call", "op", "exists", "path", path)
	st, err := client.Exists(ctx, path)
	if err != nil {
		t.fail(ctx, "exists", path, err)
		t.message = fmt.Sprintf("Failed to load stat of %s : %v", path, err)
		return
	}
	t.stat = st
}

func (t *Tab) loadNodeData(ctx context.Context, client store.Client) bool {
	if !t.requireClient(ctx, client) {
		return false
	}
	path := t.Path()
	logger.FromContext(ctx).V(1).Info("store call", "op", "get", "path", path)
	data, err := client.Get(ctx, path)
	if err != nil {
		t.fail(ctx, "get", path, err)
		t.message = fmt.Sprintf("Failed to read data of %s : %v", path, err)
		return false
	}
	t.nodeData = nodedata.Raw(data)
	t.queryResult = nil
	return true
}

func (t *Tab) createNode(ctx context.Context, client store.Client) {
	if !t.requireClient(ctx, client) {
		return
	}
	logger.FromContext(ctx).V(1).Info("store call", "op", "create", "path", t.pathBuf)
	created, err := client.Create(ctx, t.pathBuf, []byte(t.dataBuf))
	if err != nil {
		t.fail(ctx, "create", t.pathBuf, err)
		t.message = fmt.Sprintf("Node creation failed : %v", err)
		return
	}
	t.message = fmt.Sprintf("Node %s created successfully", created)
}

// setData writes and clears the data buffer.
func (t *Tab) setData(ctx context.Context, client store.Client) {
	if !t.requireClient(ctx, client) {
		return
	}
	path := t.Path()
	data := []byte(t.dataBuf)
	t.dataBuf = ""
	logger.FromContext(ctx).V(1).Info("store call", "op", "set", "path", path, "bytes", len(data))
	if _, err := client.Set(ctx, path, data, nil); err != nil {
		t.fail(ctx, "set", path, err)
		t.message = fmt.Sprintf("Node data update failed : %v", err)
		return
	}
	t.message = fmt.Sprintf("Node %s data successfully updated", path)
}

// DeleteTarget is the node a confirmed delete removes: the edited path
// buffer, or the current path when the buffer was cleared.
func (t *Tab) DeleteTarget() string {
	if t.pathBuf != "" {
		return t.pathBuf
	}
	return t.Path()
}

func (t *Tab) deleteNode(ctx context.Context, client store.Client) {
	if !t.requireClient(ctx, client) {
		return
	}
	path := t.DeleteTarget()
	logger.FromContext(ctx).V(1).Info("store call", "op", "delete", "path", path)
	if err := client.Delete(ctx, path, nil); err != nil {
		t.fail(ctx, "delete", path, err)
		t.message = fmt.Sprintf("Delete node failed : %v", err)
		return
	}
	t.message = fmt.Sprintf("Node %s successfully deleted", path)
}

func (t *Tab) fail(ctx context.Context, op, path string, err error) {
	logger.FromContext(ctx).Error(err, "store call failed", "op", op, "path", path)
}
