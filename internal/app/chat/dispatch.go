package chat

// Trigger is the kind of UI event.
type Trigger int

const (
	// TriggerLoad fires once when the chat screen is shown.
	TriggerLoad Trigger = iota

	// TriggerClick is a click/activation of a control named by Event.Target.
	TriggerClick

	// TriggerKey is a key press named by Event.Target.
	TriggerKey
)

// Control and key names used in the default bindings.
const (
	ControlSend = "send"
	KeyEnter    = "enter"
)

// Event is a toolkit-independent UI event.
type Event struct {
	Trigger Trigger

	// Target is the control name for clicks and the key name for key presses.
	Target string

	// Shift reports whether Shift (or the front end's equivalent modifier) was held.
	Shift bool

	// Input is the current content of the message input.
	Input string
}

// Action is what an event asks the controller to do.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionSend

	// ActionInsertNewline tells the front end to insert a line break itself.
	ActionInsertNewline
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionSend:
		return "send"
	case ActionInsertNewline:
		return "insert_newline"
	default:
		return "none"
	}
}

// Binding is the lookup key of a DispatchTable.
type Binding struct {
	Trigger Trigger
	Target  string
	Shift   bool
}

// DispatchTable maps UI events to actions. Unbound events resolve to ActionNone.
type DispatchTable map[Binding]Action

// DefaultDispatchTable binds the load event, the send control, Enter and Shift+Enter.
func DefaultDispatchTable() DispatchTable {
	return DispatchTable{
		{Trigger: TriggerLoad}:                               ActionStart,
		{Trigger: TriggerClick, Target: ControlSend}:         ActionSend,
		{Trigger: TriggerKey, Target: KeyEnter}:              ActionSend,
		{Trigger: TriggerKey, Target: KeyEnter, Shift: true}: ActionInsertNewline,
	}
}

// Resolve returns the action bound to ev.
func (t DispatchTable) Resolve(ev Event) Action {
	target := ev.Target
	if ev.Trigger == TriggerLoad {
		target = ""
	}
	shift := ev.Shift && ev.Trigger == TriggerKey

	return t[Binding{Trigger: ev.Trigger, Target: target, Shift: shift}]
}
