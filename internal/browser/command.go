package browser

// CommandKind enumerates the inputs understood by the session and tabs.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdMoveDown
	CmdMoveUp
	CmdToggleStatAutoLoad
	CmdEnter
	CmdBack
	CmdRefresh
	CmdOpenRead
	CmdOpenCreate
	CmdOpenDelete
	CmdNextTab
	CmdPrevTab
	CmdAsText
	CmdAsStructured
	CmdAsRaw
	CmdEdit
	CmdQuery
	CmdCancel
	CmdSubmit
	CmdSwitchField
	CmdInsert
	CmdBackspace
	CmdConnect
	CmdEditConnection
	CmdQuit
)

var commandNames = map[CommandKind]string{
	CmdNone:               "none",
	CmdMoveDown:           "move_down",
	CmdMoveUp:             "move_up",
	CmdToggleStatAutoLoad: "toggle_stat",
	CmdEnter:              "enter",
	CmdBack:               "back",
	CmdRefresh:            "refresh",
	CmdOpenRead:           "read",
	CmdOpenCreate:         "create",
	CmdOpenDelete:         "delete",
	CmdNextTab:            "next_tab",
	CmdPrevTab:            "prev_tab",
	CmdAsText:             "as_text",
	CmdAsStructured:       "as_structured",
	CmdAsRaw:              "as_raw",
	CmdEdit:               "edit",
	CmdQuery:              "query",
	CmdCancel:             "cancel",
	CmdSubmit:             "submit",
	CmdSwitchField:        "switch_field",
	CmdInsert:             "insert",
	CmdBackspace:          "backspace",
	CmdConnect:            "connect",
	CmdEditConnection:     "edit_connection",
	CmdQuit:               "quit",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is a single user input. Char is only meaningful for CmdInsert.
type Command struct {
	Kind CommandKind
	Char rune
}

// Cmd builds a command without a character payload.
func Cmd(kind CommandKind) Command {
	return Command{Kind: kind}
}

// Insert builds a character-insert command.
func Insert(r rune) Command {
	return Command{Kind: CmdInsert, Char: r}
}
