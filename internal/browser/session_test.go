package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/zkx/internal/store"
	"github.com/oakwood-commons/zkx/pkg/logger"
)

func memorySession(mem *store.Memory, client *recordingClient) *Session {
	var dialed store.Client = mem
	if client != nil {
		dialed = client
	}
	return NewSession(Options{
		ConnString:   "127.0.0.1:2181",
		Tabs:         3,
		AutoLoadStat: true,
		Dialer: store.DialerFunc(func(ctx context.Context, _ string, _ time.Duration) (store.Client, error) {
			return dialed, nil
		}),
	})
}

func connected(t *testing.T, s *Session) {
	t.Helper()
	out, err := s.Dispatch(context.Background(), Cmd(CmdConnect))
	require.NoError(t, err)
	require.False(t, out.Quit)
	require.Equal(t, TabBrowsing, s.Mode())
}

func TestSessionConnectListsRoot(t *testing.T) {
	s := memorySession(seededTree(), nil)
	assert.Equal(t, EstablishingConnection, s.Mode())
	assert.False(t, s.Connected())

	connected(t, s)

	assert.True(t, s.Connected())
	assert.Equal(t, []string{"a", "b", "c"}, s.Active().Children())
}

func TestSessionConnectLogsConnection(t *testing.T) {
	var lines []string
	lgr := funcr.New(func(prefix, args string) { lines = append(lines, args) }, funcr.Options{})
	ctx := logger.WithLogger(context.Background(), &lgr)

	s := memorySession(seededTree(), nil)
	_, err := s.Dispatch(ctx, Cmd(CmdConnect))
	require.NoError(t, err)

	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], `"msg"="connected"`)
	assert.Contains(t, lines[0], `"connection"="127.0.0.1:2181"`)
}

func TestSessionConnectFailureIsFatal(t *testing.T) {
	s := NewSession(Options{
		ConnString: "10.0.0.1:2181",
		Dialer: store.DialerFunc(func(context.Context, string, time.Duration) (store.Client, error) {
			return nil, errInjected
		}),
	})

	_, err := s.Dispatch(context.Background(), Cmd(CmdConnect))

	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)
	assert.Contains(t, err.Error(), "10.0.0.1:2181")
	assert.Equal(t, EstablishingConnection, s.Mode())
}

func TestSessionConnectTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	s := NewSession(Options{
		ConnString: "127.0.0.1:2181",
		Timeout:    20 * time.Millisecond,
		Dialer: store.DialerFunc(func(context.Context, string, time.Duration) (store.Client, error) {
			<-release
			return store.NewMemory(), nil
		}),
	})

	_, err := s.Dispatch(context.Background(), Cmd(CmdConnect))

	assert.True(t, errors.Is(err, store.ErrConnectTimeout))
	assert.False(t, s.Connected())
}

func TestSessionWithoutDialer(t *testing.T) {
	s := NewSession(Options{})
	_, err := s.Dispatch(context.Background(), Cmd(CmdConnect))
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestSessionEditConnection(t *testing.T) {
	ctx := context.Background()
	s := memorySession(seededTree(), nil)

	_, err := s.Dispatch(ctx, Cmd(CmdEditConnection))
	require.NoError(t, err)
	require.Equal(t, EditingConnection, s.Mode())

	for range 4 {
		_, _ = s.Dispatch(ctx, Cmd(CmdBackspace))
	}
	for _, r := range "2182" {
		_, _ = s.Dispatch(ctx, Insert(r))
	}
	assert.Equal(t, "127.0.0.1:2182", s.ConnectionInput())

	_, err = s.Dispatch(ctx, Cmd(CmdSubmit))
	require.NoError(t, err)
	assert.Equal(t, EstablishingConnection, s.Mode())
}

func TestSessionQuit(t *testing.T) {
	ctx := context.Background()

	t.Run("establishing", func(t *testing.T) {
		s := memorySession(seededTree(), nil)
		out, err := s.Dispatch(ctx, Cmd(CmdQuit))
		require.NoError(t, err)
		assert.True(t, out.Quit)
	})

	t.Run("escape while establishing", func(t *testing.T) {
		s := memorySession(seededTree(), nil)
		out, _ := s.Dispatch(ctx, Cmd(CmdCancel))
		assert.True(t, out.Quit)
	})

	t.Run("editing connection", func(t *testing.T) {
		s := memorySession(seededTree(), nil)
		_, _ = s.Dispatch(ctx, Cmd(CmdEditConnection))
		out, _ := s.Dispatch(ctx, Cmd(CmdQuit))
		assert.True(t, out.Quit)
	})

	t.Run("browsing", func(t *testing.T) {
		s := memorySession(seededTree(), nil)
		connected(t, s)
		out, _ := s.Dispatch(ctx, Cmd(CmdQuit))
		assert.True(t, out.Quit)
	})

	t.Run("ignored while reading", func(t *testing.T) {
		s := memorySession(seededTree(), nil)
		connected(t, s)
		_, _ = s.Dispatch(ctx, Cmd(CmdMoveDown))
		_, _ = s.Dispatch(ctx, Cmd(CmdOpenRead))
		require.Equal(t, ReadingData, s.Active().Mode())
		out, _ := s.Dispatch(ctx, Cmd(CmdQuit))
		assert.False(t, out.Quit)
	})
}

func TestSessionTabSwitchRefetches(t *testing.T) {
	ctx := context.Background()
	mem := seededTree()
	client := record(mem)
	s := memorySession(mem, client)
	connected(t, s)
	client.Reset()

	_, err := s.Dispatch(ctx, Cmd(CmdNextTab))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Tabs().ActiveIndex())
	assert.Equal(t, []string{"children /"}, client.Calls())
	assert.Equal(t, []string{"a", "b", "c"}, s.Active().Children())

	_, err = mem.Create(ctx, "/d", nil)
	require.NoError(t, err)
	_, _ = s.Dispatch(ctx, Cmd(CmdPrevTab))
	assert.Equal(t, 0, s.Tabs().ActiveIndex())
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Active().Children())
}

func TestSessionTabsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := memorySession(seededTree(), nil)
	connected(t, s)

	_, _ = s.Dispatch(ctx, Cmd(CmdMoveDown))
	_, _ = s.Dispatch(ctx, Cmd(CmdEnter))
	require.Equal(t, "/a/x", s.Active().Path())

	_, _ = s.Dispatch(ctx, Cmd(CmdNextTab))
	assert.Equal(t, "/", s.Active().Path())

	_, _ = s.Dispatch(ctx, Cmd(CmdPrevTab))
	assert.Equal(t, "/a/x", s.Active().Path())
	assert.Equal(t, []string{"x"}, s.Active().Children())
}

func TestSessionCommandsBeforeConnectDoNotTouchTabs(t *testing.T) {
	ctx := context.Background()
	s := memorySession(seededTree(), nil)

	_, err := s.Dispatch(ctx, Cmd(CmdMoveDown))
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, Cmd(CmdOpenRead))
	require.NoError(t, err)

	assert.Equal(t, Browsing, s.Active().Mode())
	assert.Empty(t, s.Active().Children())
}

func TestSessionClose(t *testing.T) {
	mem := seededTree()
	s := memorySession(mem, nil)
	connected(t, s)

	s.Close()

	assert.False(t, s.Connected())
	_, err := mem.Children(context.Background(), "/")
	assert.ErrorIs(t, err, store.ErrClosed)
}
