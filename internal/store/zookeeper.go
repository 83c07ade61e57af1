package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-zookeeper/zk"
)

// ZooKeeper is a Client backed by a live ZooKeeper session.
type ZooKeeper struct {
	conn *zk.Conn
	log  logr.Logger
}

// ZooKeeperDialer connects to an ensemble given as "host:port[,host:port...]".
type ZooKeeperDialer struct {
	Log logr.Logger
}

// zkLogger routes the client library's Printf logging into logr.
type zkLogger struct {
	log logr.Logger
}

func (l zkLogger) Printf(format string, args ...any) {
	l.log.V(1).Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Dial opens a session and waits until it is established. Whichever comes
// first wins: the session, the timeout, or ctx cancellation.
func (d ZooKeeperDialer) Dial(ctx context.Context, connString string, timeout time.Duration) (Client, error) {
	servers := splitServers(connString)
	if len(servers) == 0 {
		return nil, fmt.Errorf("connect %q: no servers given", connString)
	}
	log := d.Log.WithValues("servers", servers)
	conn, events, err := zk.Connect(servers, sessionTimeout(timeout), zk.WithLogger(zkLogger{log: log}))
	if err != nil {
		return nil, fmt.Errorf("connect %q: %w", connString, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				conn.Close()
				return nil, fmt.Errorf("connect %q: %w", connString, ErrClosed)
			}
			log.V(1).Info("session event", "state", ev.State.String())
			if ev.State == zk.StateHasSession {
				go drain(events)
				return &ZooKeeper{conn: conn, log: d.Log}, nil
			}
			if ev.State == zk.StateAuthFailed || ev.State == zk.StateExpired {
				conn.Close()
				return nil, fmt.Errorf("connect %q: session %s", connString, ev.State)
			}
		case <-timer.C:
			conn.Close()
			return nil, fmt.Errorf("connect %q: %w", connString, ErrConnectTimeout)
		case <-ctx.Done():
			conn.Close()
			return nil, ctx.Err()
		}
	}
}

// drain keeps the session event channel from blocking the client library.
func drain(events <-chan zk.Event) {
	for range events {
	}
}

func sessionTimeout(connect time.Duration) time.Duration {
	const floor = 10 * time.Second
	if connect > floor {
		return connect
	}
	return floor
}

func splitServers(connString string) []string {
	var servers []string
	for _, s := range strings.Split(connString, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	return servers
}

func (z *ZooKeeper) Exists(ctx context.Context, path string) (*Stat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ok, st, err := z.conn.Exists(path)
	if err != nil {
		return nil, z.wrap("exists", path, err)
	}
	if !ok {
		return nil, nil
	}
	return convertStat(st), nil
}

func (z *ZooKeeper) Children(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	children, _, err := z.conn.Children(path)
	if err != nil {
		return nil, z.wrap("children", path, err)
	}
	return children, nil
}

func (z *ZooKeeper) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, err := z.conn.Get(path)
	if err != nil {
		return nil, z.wrap("get", path, err)
	}
	return data, nil
}

// Create makes a persistent node with an open ACL.
func (z *ZooKeeper) Create(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	created, err := z.conn.Create(path, data, 0, zk.WorldACL(zk.PermAll))
	if err != nil {
		return "", z.wrap("create", path, err)
	}
	return created, nil
}

func (z *ZooKeeper) Set(ctx context.Context, path string, data []byte, version *int32) (*Stat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := z.conn.Set(path, data, anyVersion(version))
	if err != nil {
		return nil, z.wrap("set", path, err)
	}
	return convertStat(st), nil
}

func (z *ZooKeeper) Delete(ctx context.Context, path string, version *int32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := z.conn.Delete(path, anyVersion(version)); err != nil {
		return z.wrap("delete", path, err)
	}
	return nil
}

func (z *ZooKeeper) Close() {
	z.conn.Close()
}

func (z *ZooKeeper) wrap(op, path string, err error) error {
	z.log.V(1).Info("store operation failed", "op", op, "path", path, "error", err.Error())
	switch {
	case errors.Is(err, zk.ErrNoNode):
		err = ErrNoNode
	case errors.Is(err, zk.ErrNodeExists):
		err = ErrNodeExists
	case errors.Is(err, zk.ErrNotEmpty):
		err = ErrNotEmpty
	case errors.Is(err, zk.ErrBadVersion):
		err = ErrBadVersion
	case errors.Is(err, zk.ErrInvalidPath):
		err = ErrBadPath
	case errors.Is(err, zk.ErrClosing), errors.Is(err, zk.ErrConnectionClosed):
		err = ErrClosed
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}

func anyVersion(version *int32) int32 {
	if version == nil {
		return -1
	}
	return *version
}

func convertStat(st *zk.Stat) *Stat {
	if st == nil {
		return nil
	}
	return &Stat{
		Czxid:          st.Czxid,
		Mzxid:          st.Mzxid,
		Ctime:          st.Ctime,
		Mtime:          st.Mtime,
		Version:        st.Version,
		Cversion:       st.Cversion,
		Aversion:       st.Aversion,
		EphemeralOwner: st.EphemeralOwner,
		DataLength:     st.DataLength,
		NumChildren:    st.NumChildren,
		Pzxid:          st.Pzxid,
	}
}
