package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/zkx/internal/browser"
	"github.com/oakwood-commons/zkx/internal/config"
	"github.com/oakwood-commons/zkx/internal/nodedata"
	"github.com/oakwood-commons/zkx/internal/store"
)

type stubQuery struct{}

func (stubQuery) Breadcrumb(string) []string { return []string{"_", "name"} }
func (stubQuery) Suggest(string) []string    { return []string{"size"} }

func newTestModel(t *testing.T, dialer store.Dialer) *Model {
	t.Helper()
	if dialer == nil {
		mem := store.NewMemory().
			Seed("/app/config", []byte(`{"name":"zkx","port":2181}`)).
			Seed("/plain", []byte("hello"))
		dialer = store.MemoryDialer(mem)
	}
	s := browser.NewSession(browser.Options{
		ConnString:   "127.0.0.1:2181",
		Tabs:         2,
		AutoLoadStat: true,
		Dialer:       dialer,
	})
	t.Cleanup(s.Close)
	cfg, err := config.Default()
	require.NoError(t, err)
	m := NewModel(context.Background(), s, Options{
		Theme:  cfg.ActiveTheme(),
		Format: nodedata.StyleJSONPretty,
		Query:  stubQuery{},
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func send(t *testing.T, m *Model, msgs ...tea.KeyPressMsg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelConnectScreen(t *testing.T) {
	m := newTestModel(t, nil)
	out := m.Render()
	assert.Contains(t, out, "127.0.0.1:2181")
	assert.Contains(t, out, "connect")
}

func TestModelConnectAndBrowse(t *testing.T) {
	m := newTestModel(t, nil)

	assert.Nil(t, send(t, m, special(tea.KeyEnter)))
	require.Equal(t, browser.TabBrowsing, m.session.Mode())
	out := m.Render()
	assert.Contains(t, out, "app")
	assert.Contains(t, out, "plain")

	send(t, m, press("j"), special(tea.KeyEnter))
	assert.Equal(t, "/app", m.session.Active().Dir())
	assert.Contains(t, m.Render(), "config")

	send(t, m, press("j"), press("R"))
	require.Equal(t, browser.ReadingData, m.session.Active().Mode())
	send(t, m, press("J"))
	out = m.Render()
	assert.Contains(t, out, "Node Data")
	assert.Contains(t, out, `"port": 2181`)
}

func TestModelStatPanel(t *testing.T) {
	m := newTestModel(t, nil)
	send(t, m, special(tea.KeyEnter), press("j"))
	out := m.Render()
	assert.Contains(t, out, "Stat")
	assert.Contains(t, out, "num children")

	send(t, m, press("s"))
	assert.NotContains(t, m.Render(), "num children")
}

func TestModelCreateNode(t *testing.T) {
	m := newTestModel(t, nil)
	send(t, m, special(tea.KeyEnter), press("C"))
	require.Equal(t, browser.CreatingNodePath, m.session.Active().Mode())

	for _, r := range "new" {
		send(t, m, press(string(r)))
	}
	send(t, m, special(tea.KeyTab), press("v"), special(tea.KeyEnter))

	assert.Equal(t, "Node /new created successfully", m.session.Active().Message())
	assert.Contains(t, m.Render(), "created successfully")
}

func TestModelDeleteRequiresConfirmation(t *testing.T) {
	m := newTestModel(t, nil)
	send(t, m, special(tea.KeyEnter), press("j"), press("j"), press("D"))
	require.Equal(t, browser.DeleteNode, m.session.Active().Mode())
	send(t, m, special(tea.KeyEnter))
	require.Equal(t, browser.ConfirmingDelete, m.session.Active().Mode())
	assert.Contains(t, m.Render(), "Type DELETE")

	for _, r := range "DELETE" {
		send(t, m, press(string(r)))
	}
	send(t, m, special(tea.KeyEnter))

	assert.Equal(t, browser.Browsing, m.session.Active().Mode())
	assert.Equal(t, []string{"app"}, m.session.Active().Children())
}

func TestModelConfirmShowsDeleteTarget(t *testing.T) {
	m := newTestModel(t, nil)
	send(t, m, special(tea.KeyEnter), press("j"), press("j"), press("D"))
	require.Equal(t, "/plain", m.session.Active().PathBuf())
	for range "/plain" {
		send(t, m, special(tea.KeyBackspace))
	}
	require.Empty(t, m.session.Active().PathBuf())
	send(t, m, special(tea.KeyEnter))
	require.Equal(t, browser.ConfirmingDelete, m.session.Active().Mode())

	assert.Contains(t, m.Render(), "Type DELETE to delete /plain")
}

func TestModelQueryPanel(t *testing.T) {
	m := newTestModel(t, nil)
	send(t, m, special(tea.KeyEnter), press("j"), special(tea.KeyEnter), press("j"), press("R"), press(":"))
	require.Equal(t, browser.QueryingData, m.session.Active().Mode())
	out := m.Render()
	assert.Contains(t, out, "Query")
	assert.Contains(t, out, "size")
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil)
	send(t, m, special(tea.KeyEnter))
	assert.True(t, isQuit(send(t, m, press("q"))))
}

func TestModelCtrlCQuitsAnywhere(t *testing.T) {
	m := newTestModel(t, nil)
	send(t, m, special(tea.KeyEnter), press("C"))
	assert.True(t, isQuit(send(t, m, ctrl('c'))))
}

func TestModelConnectFailureIsFatal(t *testing.T) {
	boom := errors.New("refused")
	m := newTestModel(t, store.DialerFunc(func(context.Context, string, time.Duration) (store.Client, error) {
		return nil, boom
	}))

	assert.True(t, isQuit(send(t, m, special(tea.KeyEnter))))
	assert.ErrorIs(t, m.Err(), boom)
}

func TestModelViewUsesAltScreen(t *testing.T) {
	m := newTestModel(t, nil)
	assert.True(t, m.View().AltScreen)
}

func TestModelNoColor(t *testing.T) {
	s := browser.NewSession(browser.Options{ConnString: "localhost:2181"})
	m := NewModel(context.Background(), s, Options{NoColor: true})
	assert.True(t, m.styles.noColor)
	assert.Contains(t, m.Render(), "localhost:2181")
}
