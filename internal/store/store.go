// Package store defines the client contract for the remote node tree and its
// implementations.
package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/oakwood-commons/zkx/internal/formatter"
)

var (
	ErrNoNode         = errors.New("node does not exist")
	ErrNodeExists     = errors.New("node already exists")
	ErrNotEmpty       = errors.New("node has children")
	ErrBadVersion     = errors.New("version conflict")
	ErrBadPath        = errors.New("invalid path")
	ErrConnectTimeout = errors.New("establish connection timeout")
	ErrClosed         = errors.New("client is closed")
)

// Stat is a point-in-time metadata snapshot of a node.
type Stat struct {
	Czxid          int64
	Mzxid          int64
	Ctime          int64
	Mtime          int64
	Version        int32
	Cversion       int32
	Aversion       int32
	EphemeralOwner int64
	DataLength     int32
	NumChildren    int32
	Pzxid          int64
}

// Pairs lists the stat fields in display order.
func (s Stat) Pairs() []formatter.Pair {
	return []formatter.Pair{
		{Key: "czxid", Value: strconv.FormatInt(s.Czxid, 10)},
		{Key: "mzxid", Value: strconv.FormatInt(s.Mzxid, 10)},
		{Key: "ctime", Value: formatMillis(s.Ctime)},
		{Key: "mtime", Value: formatMillis(s.Mtime)},
		{Key: "version", Value: strconv.FormatInt(int64(s.Version), 10)},
		{Key: "cversion", Value: strconv.FormatInt(int64(s.Cversion), 10)},
		{Key: "aversion", Value: strconv.FormatInt(int64(s.Aversion), 10)},
		{Key: "ephemeral owner", Value: strconv.FormatInt(s.EphemeralOwner, 10)},
		{Key: "data length", Value: strconv.FormatInt(int64(s.DataLength), 10)},
		{Key: "num children", Value: strconv.FormatInt(int64(s.NumChildren), 10)},
		{Key: "pzxid", Value: strconv.FormatInt(s.Pzxid, 10)},
	}
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return strconv.FormatInt(ms, 10)
	}
	return strconv.FormatInt(ms, 10) + " (" + time.UnixMilli(ms).UTC().Format(time.RFC3339) + ")"
}

// Client is the set of tree operations the browser needs. Children are
// returned in server order. An expected version of nil skips the version check.
type Client interface {
	Exists(ctx context.Context, path string) (*Stat, error)
	Children(ctx context.Context, path string) ([]string, error)
	Get(ctx context.Context, path string) ([]byte, error)
	Create(ctx context.Context, path string, data []byte) (string, error)
	Set(ctx context.Context, path string, data []byte, version *int32) (*Stat, error)
	Delete(ctx context.Context, path string, version *int32) error
	Close()
}

// Dialer opens a Client. Dial must give up once timeout elapses.
type Dialer interface {
	Dial(ctx context.Context, connString string, timeout time.Duration) (Client, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, connString string, timeout time.Duration) (Client, error)

func (f DialerFunc) Dial(ctx context.Context, connString string, timeout time.Duration) (Client, error) {
	return f(ctx, connString, timeout)
}
