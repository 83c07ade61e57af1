// Package ui is the bubbletea front end of zkx. It maps key presses to
// browser commands, dispatches them one at a time, and renders the session
// state after each command.
package ui

import (
	"context"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/zkx/internal/browser"
	"github.com/oakwood-commons/zkx/internal/config"
	"github.com/oakwood-commons/zkx/internal/nodedata"
	"github.com/oakwood-commons/zkx/pkg/logger"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

// QueryHelper decorates the query form.
type QueryHelper interface {
	Breadcrumb(expr string) []string
	Suggest(expr string) []string
}

// Options configures the model.
type Options struct {
	KeyMode KeyMode
	Theme   config.Theme
	NoColor bool
	Format  nodedata.Style
	Query   QueryHelper
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	session *browser.Session
	keys    keyMap
	styles  styles
	help    help.Model
	format  nodedata.Style
	query   QueryHelper

	width  int
	height int
	err    error
}

// NewModel wraps a session. ctx is passed to every Dispatch.
func NewModel(ctx context.Context, session *browser.Session, opts Options) *Model {
	mode := opts.KeyMode
	if mode == "" {
		mode = DefaultKeyMode
	}
	st := newStyles(opts.Theme, opts.NoColor)
	h := st.helpModel()
	h.ShortSeparator = " | "
	return &Model{
		ctx:     ctx,
		session: session,
		keys:    newKeyMap(mode),
		styles:  st,
		help:    h,
		format:  opts.Format,
		query:   opts.Query,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles window sizing and key presses. Each command produced by a
// key is dispatched to completion before the next one.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetWidth(msg.Width)
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		sc := screenOf(m.session)
		for _, cmd := range m.keys.resolve(sc, msg) {
			logger.FromContext(m.ctx).V(2).Info("key", "key", msg.String(), "command", cmd.Kind.String())
			out, err := m.session.Dispatch(m.ctx, cmd)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			if out.Quit {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// View renders the current screen in the alternate screen buffer.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Err is the fatal error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Run starts the program and blocks until it exits. A fatal session error is
// returned in place of a nil program error.
func Run(ctx context.Context, session *browser.Session, opts Options, progOpts ...tea.ProgramOption) error {
	m := NewModel(ctx, session, opts)
	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)
	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
