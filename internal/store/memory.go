package store

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"
)

type memNode struct {
	data     []byte
	stat     Stat
	children []string
}

// Memory is an in-process node tree. It backs tests and the --memory mode.
type Memory struct {
	mu     sync.Mutex
	nodes  map[string]*memNode
	zxid   int64
	closed bool
	now    func() time.Time
}

// NewMemory returns a tree holding only the root node.
func NewMemory() *Memory {
	m := &Memory{
		nodes: map[string]*memNode{},
		now:   time.Now,
	}
	m.nodes["/"] = &memNode{}
	return m
}

// Seed creates p and any missing parents, setting p's payload. It is meant
// for fixtures and panics on an invalid path.
func (m *Memory) Seed(p string, data []byte) *Memory {
	if err := validatePath(p); err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := ""
	for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if part == "" {
			continue
		}
		cur += "/" + part
		if _, ok := m.nodes[cur]; !ok {
			m.createLocked(cur, nil)
		}
	}
	if n, ok := m.nodes[p]; ok {
		n.data = append([]byte(nil), data...)
		n.stat.DataLength = int32(len(data))
	}
	return m
}

func (m *Memory) Exists(ctx context.Context, p string) (*Stat, error) {
	if err := m.check(ctx, p); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[p]
	if !ok {
		return nil, nil
	}
	st := n.stat
	return &st, nil
}

func (m *Memory) Children(ctx context.Context, p string) ([]string, error) {
	if err := m.check(ctx, p); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[p]
	if !ok {
		return nil, fmt.Errorf("children of %s: %w", p, ErrNoNode)
	}
	return append([]string{}, n.children...), nil
}

func (m *Memory) Get(ctx context.Context, p string) ([]byte, error) {
	if err := m.check(ctx, p); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[p]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", p, ErrNoNode)
	}
	return append([]byte(nil), n.data...), nil
}

func (m *Memory) Create(ctx context.Context, p string, data []byte) (string, error) {
	if err := m.check(ctx, p); err != nil {
		return "", err
	}
	if p == "/" {
		return "", fmt.Errorf("create %s: %w", p, ErrNodeExists)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[p]; ok {
		return "", fmt.Errorf("create %s: %w", p, ErrNodeExists)
	}
	if _, ok := m.nodes[path.Dir(p)]; !ok {
		return "", fmt.Errorf("create %s: parent: %w", p, ErrNoNode)
	}
	m.createLocked(p, data)
	return p, nil
}

func (m *Memory) Set(ctx context.Context, p string, data []byte, version *int32) (*Stat, error) {
	if err := m.check(ctx, p); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[p]
	if !ok {
		return nil, fmt.Errorf("set %s: %w", p, ErrNoNode)
	}
	if version != nil && *version != n.stat.Version {
		return nil, fmt.Errorf("set %s: %w", p, ErrBadVersion)
	}
	m.zxid++
	n.data = append([]byte(nil), data...)
	n.stat.Version++
	n.stat.Mzxid = m.zxid
	n.stat.Mtime = m.now().UnixMilli()
	n.stat.DataLength = int32(len(data))
	st := n.stat
	return &st, nil
}

func (m *Memory) Delete(ctx context.Context, p string, version *int32) error {
	if err := m.check(ctx, p); err != nil {
		return err
	}
	if p == "/" {
		return fmt.Errorf("delete %s: %w", p, ErrBadPath)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[p]
	if !ok {
		return fmt.Errorf("delete %s: %w", p, ErrNoNode)
	}
	if len(n.children) > 0 {
		return fmt.Errorf("delete %s: %w", p, ErrNotEmpty)
	}
	if version != nil && *version != n.stat.Version {
		return fmt.Errorf("delete %s: %w", p, ErrBadVersion)
	}
	delete(m.nodes, p)
	parent := m.nodes[path.Dir(p)]
	name := path.Base(p)
	for i, c := range parent.children {
		if c == name {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	m.zxid++
	parent.stat.Cversion++
	parent.stat.NumChildren = int32(len(parent.children))
	parent.stat.Pzxid = m.zxid
	return nil
}

func (m *Memory) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *Memory) check(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return validatePath(p)
}

func (m *Memory) createLocked(p string, data []byte) *memNode {
	m.zxid++
	now := m.now().UnixMilli()
	n := &memNode{
		data: append([]byte(nil), data...),
		stat: Stat{
			Czxid:      m.zxid,
			Mzxid:      m.zxid,
			Pzxid:      m.zxid,
			Ctime:      now,
			Mtime:      now,
			DataLength: int32(len(data)),
		},
	}
	m.nodes[p] = n
	parent := m.nodes[path.Dir(p)]
	parent.children = append(parent.children, path.Base(p))
	parent.stat.Cversion++
	parent.stat.NumChildren = int32(len(parent.children))
	parent.stat.Pzxid = m.zxid
	return n
}

func validatePath(p string) error {
	if p == "/" {
		return nil
	}
	if !strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") || strings.Contains(p, "//") {
		return fmt.Errorf("%q: %w", p, ErrBadPath)
	}
	return nil
}

// MemoryDialer hands out the same Memory tree on every dial.
func MemoryDialer(m *Memory) Dialer {
	return DialerFunc(func(ctx context.Context, _ string, _ time.Duration) (Client, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return m, nil
	})
}
