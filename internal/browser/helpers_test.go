package browser

import (
	"context"
	"errors"
	"sync"

	"github.com/oakwood-commons/zkx/internal/store"
)

// recordingClient wraps a client and records every call as "op path".
type recordingClient struct {
	store.Client
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func record(c store.Client) *recordingClient {
	return &recordingClient{Client: c, fail: map[string]error{}}
}

func (r *recordingClient) note(op, p string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op+" "+p)
	return r.fail[op]
}

func (r *recordingClient) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingClient) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *recordingClient) Exists(ctx context.Context, p string) (*store.Stat, error) {
	if err := r.note("exists", p); err != nil {
		return nil, err
	}
	return r.Client.Exists(ctx, p)
}

func (r *recordingClient) Children(ctx context.Context, p string) ([]string, error) {
	if err := r.note("children", p); err != nil {
		return nil, err
	}
	return r.Client.Children(ctx, p)
}

func (r *recordingClient) Get(ctx context.Context, p string) ([]byte, error) {
	if err := r.note("get", p); err != nil {
		return nil, err
	}
	return r.Client.Get(ctx, p)
}

func (r *recordingClient) Create(ctx context.Context, p string, data []byte) (string, error) {
	if err := r.note("create", p); err != nil {
		return "", err
	}
	return r.Client.Create(ctx, p, data)
}

func (r *recordingClient) Set(ctx context.Context, p string, data []byte, version *int32) (*store.Stat, error) {
	if err := r.note("set", p); err != nil {
		return nil, err
	}
	return r.Client.Set(ctx, p, data, version)
}

func (r *recordingClient) Delete(ctx context.Context, p string, version *int32) error {
	if err := r.note("delete", p); err != nil {
		return err
	}
	return r.Client.Delete(ctx, p, version)
}

var errInjected = errors.New("injected failure")

// typeString feeds s to the tab one rune at a time.
func typeString(ctx context.Context, tab *Tab, client store.Client, s string) {
	for _, r := range s {
		tab.handle(ctx, client, nil, Insert(r))
	}
}

// browsingTab returns a tab listing the root of client, as after connecting.
func browsingTab(ctx context.Context, client store.Client) *Tab {
	tab := NewTab()
	tab.refreshChildren(ctx, client)
	return tab
}

type evalFunc func(expr string, data any) (any, error)

func (f evalFunc) Evaluate(expr string, data any) (any, error) { return f(expr, data) }
