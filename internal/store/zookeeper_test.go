package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
)

func TestSplitServers(t *testing.T) {
	assert.Equal(t, []string{"a:2181", "b:2181"}, splitServers(" a:2181 , b:2181,"))
	assert.Empty(t, splitServers(" , "))
}

func TestAnyVersion(t *testing.T) {
	assert.Equal(t, int32(-1), anyVersion(nil))
	v := int32(4)
	assert.Equal(t, int32(4), anyVersion(&v))
}

func TestSessionTimeoutFloor(t *testing.T) {
	assert.Equal(t, 10*time.Second, sessionTimeout(time.Second))
	assert.Equal(t, 30*time.Second, sessionTimeout(30*time.Second))
}

func TestConvertStat(t *testing.T) {
	assert.Nil(t, convertStat(nil))
	st := convertStat(&zk.Stat{Czxid: 1, Version: 2, NumChildren: 3, Pzxid: 4})
	assert.Equal(t, Stat{Czxid: 1, Version: 2, NumChildren: 3, Pzxid: 4}, *st)
}

func TestWrapMapsLibraryErrors(t *testing.T) {
	z := &ZooKeeper{log: logr.Discard()}
	tests := []struct {
		in   error
		want error
	}{
		{in: zk.ErrNoNode, want: ErrNoNode},
		{in: zk.ErrNodeExists, want: ErrNodeExists},
		{in: zk.ErrNotEmpty, want: ErrNotEmpty},
		{in: zk.ErrBadVersion, want: ErrBadVersion},
		{in: zk.ErrConnectionClosed, want: ErrClosed},
	}
	for _, tt := range tests {
		err := z.wrap("get", "/a", tt.in)
		assert.True(t, errors.Is(err, tt.want), "%v should wrap %v", err, tt.want)
		assert.Contains(t, err.Error(), "get /a")
	}
}

func TestZooKeeperDialerRejectsEmptyServers(t *testing.T) {
	_, err := ZooKeeperDialer{Log: logr.Discard()}.Dial(context.Background(), " ", time.Millisecond)
	assert.Error(t, err)
}
