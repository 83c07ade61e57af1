package browser

// TabMode is the state of a single tab's interaction state machine.
type TabMode int

const (
	// Browsing lists the children of the current directory level.
	Browsing TabMode = iota
	// ReadingData shows the payload of the current node.
	ReadingData
	// CreatingNodePath edits the path field of the create form.
	CreatingNodePath
	// CreatingNodeData edits the data field of the create form.
	CreatingNodeData
	// EditingData edits the payload of the current node.
	EditingData
	// DeleteNode edits the path of the node to delete.
	DeleteNode
	// ConfirmingDelete waits for the confirmation string.
	ConfirmingDelete
	// QueryingData edits a CEL expression evaluated against the payload.
	QueryingData
)

func (m TabMode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case ReadingData:
		return "reading"
	case CreatingNodePath:
		return "create-path"
	case CreatingNodeData:
		return "create-data"
	case EditingData:
		return "editing"
	case DeleteNode:
		return "delete"
	case ConfirmingDelete:
		return "confirm-delete"
	case QueryingData:
		return "query"
	default:
		return "unknown"
	}
}

// Mode is the session's top-level state.
type Mode int

const (
	EstablishingConnection Mode = iota
	EditingConnection
	TabBrowsing
)

func (m Mode) String() string {
	switch m {
	case EstablishingConnection:
		return "connect"
	case EditingConnection:
		return "edit-connection"
	case TabBrowsing:
		return "tabs"
	default:
		return "unknown"
	}
}
