package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/oakwood-commons/zkx/internal/store"
	"github.com/oakwood-commons/zkx/pkg/logger"
)

// DefaultConnectTimeout bounds the initial connection attempt.
const DefaultConnectTimeout = time.Second

// Options configures a Session.
type Options struct {
	// ConnString is the initial host:port connection input.
	ConnString   string
	Timeout      time.Duration
	Tabs         int
	AutoLoadStat bool
	Dialer       store.Dialer
	// Evaluator backs the query form. Nil disables queries.
	Evaluator Evaluator
}

// Outcome reports what the caller should do after a command.
type Outcome struct {
	Quit bool
}

// Session owns the store client and the tabs, and routes each command by the
// top-level mode and then by the active tab's mode.
type Session struct {
	mode    Mode
	input   string
	client  store.Client
	dialer  store.Dialer
	timeout time.Duration
	tabs    *Tabs
	eval    Evaluator
}

// NewSession returns a session waiting to connect.
func NewSession(opts Options) *Session {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &Session{
		mode:    EstablishingConnection,
		input:   opts.ConnString,
		dialer:  opts.Dialer,
		timeout: timeout,
		tabs:    NewTabs(opts.Tabs, opts.AutoLoadStat),
		eval:    opts.Evaluator,
	}
}

func (s *Session) Mode() Mode { return s.mode }
func (s *Session) ConnectionInput() string { return s.input }
func (s *Session) Connected() bool { return s.client != nil }
func (s *Session) Tabs() *Tabs { return s.tabs }
func (s *Session) Active() *Tab { return s.tabs.Active() }

// Dispatch processes one command to completion. The returned error is fatal
// and only produced by a failed connection attempt; every other failure is
// reported through the active tab's message.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	lgr := logger.FromContext(ctx)
	lgr.V(2).Info("dispatch", "mode", s.mode.String(), "command", cmd.Kind.String())

	switch s.mode {
	case EstablishingConnection:
		switch cmd.Kind {
		case CmdQuit, CmdCancel:
			return Outcome{Quit: true}, nil
		case CmdEditConnection:
			s.mode = EditingConnection
		case CmdConnect, CmdSubmit:
			if err := s.connect(ctx); err != nil {
				return Outcome{}, err
			}
		}

	case EditingConnection:
		switch cmd.Kind {
		case CmdQuit:
			return Outcome{Quit: true}, nil
		case CmdInsert:
			s.input += string(cmd.Char)
		case CmdBackspace:
			s.input = dropLastRune(s.input)
		case CmdCancel, CmdSubmit:
			s.mode = EstablishingConnection
		}

	case TabBrowsing:
		active := s.tabs.Active()
		if active.mode == Browsing {
			switch cmd.Kind {
			case CmdQuit:
				return Outcome{Quit: true}, nil
			case CmdNextTab, CmdPrevTab:
				if cmd.Kind == CmdNextTab {
					s.tabs.Next()
				} else {
					s.tabs.Prev()
				}
				lgr.V(1).Info("switched tab", "index", s.tabs.ActiveIndex())
				s.tabs.Active().relist(ctx, s.client)
				return Outcome{}, nil
			}
		}
		active.handle(ctx, s.client, s.eval, cmd)
	}
	return Outcome{}, nil
}

// connect races the dial against the connect timeout. On success the active
// tab lists the root.
func (s *Session) connect(ctx context.Context) error {
	lgr := logger.FromContext(ctx).WithValues(logger.ConnectionKey, s.input)
	if s.dialer == nil {
		return fmt.Errorf("connect %s: %w", s.input, ErrNoClient)
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		client store.Client
		err    error
	}
	done := make(chan result, 1)
	go func() {
		c, err := s.dialer.Dial(dialCtx, s.input, s.timeout)
		done <- result{c, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-dialCtx.Done():
		go func() {
			if late := <-done; late.client != nil {
				late.client.Close()
			}
		}()
		res.err = store.ErrConnectTimeout
	}
	if res.err != nil {
		lgr.Error(res.err, "connect failed")
		return fmt.Errorf("connect %s: %w", s.input, res.err)
	}

	if s.client != nil {
		s.client.Close()
	}
	s.client = res.client
	s.mode = TabBrowsing
	lgr.Info("connected")
	s.tabs.Active().refreshChildren(ctx, s.client)
	return nil
}

// Close releases the store client, if any.
func (s *Session) Close() {
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}
