package ui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/zkx/internal/browser"
	"github.com/oakwood-commons/zkx/internal/config"
)

// KeyMode selects a keybinding table.
type KeyMode string

const (
	KeyModeVim   KeyMode = config.KeymapVim
	KeyModeEmacs KeyMode = config.KeymapEmacs
)

// DefaultKeyMode is used when no keymap is configured.
const DefaultKeyMode = KeyModeVim

// binding ties a key.Binding to the command it produces.
type binding struct {
	key key.Binding
	cmd browser.CommandKind
}

func bind(cmd browser.CommandKind, keys []string, helpKey, desc string) binding {
	return binding{
		key: key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc)),
		cmd: cmd,
	}
}

// screen groups the screens that share a key table.
type screen int

const (
	scrConnect screen = iota
	scrEditConnection
	scrBrowsing
	scrReading
	scrCreating
	scrEditing
	scrDeleteTarget
	scrConfirmDelete
	scrQuery
)

// textEntry reports whether printable keys are inserted as text.
func (c screen) textEntry() bool {
	switch c {
	case scrEditConnection, scrCreating, scrEditing, scrDeleteTarget, scrConfirmDelete, scrQuery:
		return true
	}
	return false
}

func screenOf(s *browser.Session) screen {
	switch s.Mode() {
	case browser.EstablishingConnection:
		return scrConnect
	case browser.EditingConnection:
		return scrEditConnection
	}
	switch s.Active().Mode() {
	case browser.ReadingData:
		return scrReading
	case browser.CreatingNodePath, browser.CreatingNodeData:
		return scrCreating
	case browser.EditingData:
		return scrEditing
	case browser.DeleteNode:
		return scrDeleteTarget
	case browser.ConfirmingDelete:
		return scrConfirmDelete
	case browser.QueryingData:
		return scrQuery
	default:
		return scrBrowsing
	}
}

// keyMap holds one table per screen.
type keyMap map[screen][]binding

func newKeyMap(mode KeyMode) keyMap {
	if mode == KeyModeEmacs {
		return emacsKeys()
	}
	return vimKeys()
}

func vimKeys() keyMap {
	return keyMap{
		scrConnect: {
			bind(browser.CmdConnect, []string{"enter"}, "enter", "connect"),
			bind(browser.CmdEditConnection, []string{"e"}, "e", "edit"),
			bind(browser.CmdQuit, []string{"q", "esc"}, "q", "quit"),
		},
		scrEditConnection: inputKeys("esc", "save", "cancel"),
		scrBrowsing: {
			bind(browser.CmdMoveDown, []string{"j", "down"}, "j/↓", "down"),
			bind(browser.CmdMoveUp, []string{"k", "up"}, "k/↑", "up"),
			bind(browser.CmdEnter, []string{"enter", "l"}, "enter", "dir down"),
			bind(browser.CmdBack, []string{"esc", "h"}, "esc", "dir up"),
			bind(browser.CmdOpenRead, []string{"R"}, "R", "read"),
			bind(browser.CmdOpenCreate, []string{"C"}, "C", "create"),
			bind(browser.CmdOpenDelete, []string{"D"}, "D", "delete"),
			bind(browser.CmdRefresh, []string{"r", "f5"}, "r", "refresh"),
			bind(browser.CmdToggleStatAutoLoad, []string{"s"}, "s", "stat"),
			bind(browser.CmdPrevTab, []string{"left"}, "←", "prev tab"),
			bind(browser.CmdNextTab, []string{"right"}, "→", "next tab"),
			bind(browser.CmdQuit, []string{"q"}, "q", "quit"),
		},
		scrReading: {
			bind(browser.CmdCancel, []string{"esc"}, "esc", "back"),
			bind(browser.CmdAsText, []string{"S"}, "S", "string"),
			bind(browser.CmdAsStructured, []string{"J"}, "J", "json"),
			bind(browser.CmdAsRaw, []string{"R"}, "R", "raw"),
			bind(browser.CmdEdit, []string{"E"}, "E", "edit"),
			bind(browser.CmdQuery, []string{":"}, ":", "query"),
		},
		scrCreating: append(inputKeys("esc", "create", "cancel"),
			bind(browser.CmdSwitchField, []string{"tab"}, "tab", "switch field")),
		scrEditing:       inputKeys("esc", "save", "cancel"),
		scrDeleteTarget:  inputKeys("esc", "delete", "cancel"),
		scrConfirmDelete: inputKeys("esc", "confirm", "back"),
		scrQuery:         inputKeys("esc", "evaluate", "cancel"),
	}
}

func emacsKeys() keyMap {
	return keyMap{
		scrConnect: {
			bind(browser.CmdConnect, []string{"enter"}, "enter", "connect"),
			bind(browser.CmdEditConnection, []string{"e", "ctrl+e"}, "e", "edit"),
			bind(browser.CmdQuit, []string{"ctrl+q", "q", "esc"}, "C-q", "quit"),
		},
		scrEditConnection: inputKeys("ctrl+g", "save", "cancel"),
		scrBrowsing: {
			bind(browser.CmdMoveDown, []string{"ctrl+n", "down"}, "C-n", "down"),
			bind(browser.CmdMoveUp, []string{"ctrl+p", "up"}, "C-p", "up"),
			bind(browser.CmdEnter, []string{"enter", "ctrl+f"}, "C-f", "dir down"),
			bind(browser.CmdBack, []string{"esc", "ctrl+b"}, "C-b", "dir up"),
			bind(browser.CmdOpenRead, []string{"R"}, "R", "read"),
			bind(browser.CmdOpenCreate, []string{"C"}, "C", "create"),
			bind(browser.CmdOpenDelete, []string{"D"}, "D", "delete"),
			bind(browser.CmdRefresh, []string{"ctrl+l", "f5"}, "C-l", "refresh"),
			bind(browser.CmdToggleStatAutoLoad, []string{"ctrl+t"}, "C-t", "stat"),
			bind(browser.CmdPrevTab, []string{"left", "alt+p"}, "M-p", "prev tab"),
			bind(browser.CmdNextTab, []string{"right", "alt+n"}, "M-n", "next tab"),
			bind(browser.CmdQuit, []string{"ctrl+q"}, "C-q", "quit"),
		},
		scrReading: {
			bind(browser.CmdCancel, []string{"esc", "ctrl+g"}, "C-g", "back"),
			bind(browser.CmdAsText, []string{"S"}, "S", "string"),
			bind(browser.CmdAsStructured, []string{"J"}, "J", "json"),
			bind(browser.CmdAsRaw, []string{"R"}, "R", "raw"),
			bind(browser.CmdEdit, []string{"E"}, "E", "edit"),
			bind(browser.CmdQuery, []string{"alt+x"}, "M-x", "query"),
		},
		scrCreating: append(inputKeys("ctrl+g", "create", "cancel"),
			bind(browser.CmdSwitchField, []string{"tab"}, "tab", "switch field")),
		scrEditing:       inputKeys("ctrl+g", "save", "cancel"),
		scrDeleteTarget:  inputKeys("ctrl+g", "delete", "cancel"),
		scrConfirmDelete: inputKeys("ctrl+g", "confirm", "back"),
		scrQuery:         inputKeys("ctrl+g", "evaluate", "cancel"),
	}
}

// inputKeys is the table shared by the text entry screens. Escape always
// cancels; cancelKey is shown in the footer.
func inputKeys(cancelKey, submitDesc, cancelDesc string) []binding {
	cancelKeys := []string{"esc"}
	if cancelKey != "esc" {
		cancelKeys = append(cancelKeys, cancelKey)
	}
	return []binding{
		bind(browser.CmdSubmit, []string{"enter"}, "enter", submitDesc),
		bind(browser.CmdCancel, cancelKeys, cancelKey, cancelDesc),
		bind(browser.CmdBackspace, []string{"backspace"}, "⌫", "erase"),
	}
}

// resolve turns a key press into commands for the given screen. Printable
// text in an entry screen becomes one insert per rune; ctrl+j inserts a
// newline where multi-line payloads are edited.
func (km keyMap) resolve(sc screen, msg tea.KeyPressMsg) []browser.Command {
	for _, b := range km[sc] {
		if key.Matches(msg, b.key) {
			return []browser.Command{browser.Cmd(b.cmd)}
		}
	}
	if !sc.textEntry() {
		return nil
	}
	k := msg.Key()
	if msg.String() == "ctrl+j" && (sc == scrCreating || sc == scrEditing) {
		return []browser.Command{browser.Insert('\n')}
	}
	if k.Text == "" || k.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
		return nil
	}
	cmds := make([]browser.Command, 0, len(k.Text))
	for _, r := range k.Text {
		cmds = append(cmds, browser.Insert(r))
	}
	return cmds
}

// help returns the bindings shown in the footer for sc.
func (km keyMap) help(sc screen) []key.Binding {
	out := make([]key.Binding, 0, len(km[sc]))
	for _, b := range km[sc] {
		out = append(out, b.key)
	}
	return out
}
