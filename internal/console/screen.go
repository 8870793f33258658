package console

import "fmt"

// Screen is the modal state of the console. Exactly one is current.
type Screen int

const (
	Main Screen = iota
	Settings
	Markers
	ActionMenu
	Exit
)

var screenNames = [...]string{"main", "settings", "markers", "action_menu", "exit"}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

// IsOverlay reports whether s is drawn over a dimmed Main.
func (s Screen) IsOverlay() bool { return s != Main }

type event int

const (
	evBack event = iota
	evSelect
	evSent
)

// transitions is the navigation table. Direct activation of an overlay via
// Activate is allowed from any screen and replaces the current overlay.
var transitions = map[Screen]map[event]Screen{
	Main:       {evBack: Exit, evSelect: ActionMenu},
	Exit:       {evBack: Main},
	Settings:   {evBack: Main},
	Markers:    {evBack: Main},
	ActionMenu: {evBack: Main, evSent: Main},
}

func next(from Screen, ev event) (Screen, bool) {
	to, ok := transitions[from][ev]
	return to, ok
}

// Group is a presentation group toggled as a unit.
type Group int

const (
	GroupMain Group = iota
	GroupDebug
	GroupSettings
	GroupMarkers
	GroupActionMenu
	GroupExit
)

func groupOf(s Screen) Group {
	switch s {
	case Settings:
		return GroupSettings
	case Markers:
		return GroupMarkers
	case ActionMenu:
		return GroupActionMenu
	case Exit:
		return GroupExit
	default:
		return GroupMain
	}
}

// Visibility is the three-valued state of a group.
type Visibility struct {
	Alpha          float64
	Interactable   bool
	BlocksRaycasts bool
}

var (
	Shown  = Visibility{Alpha: 1, Interactable: true, BlocksRaycasts: true}
	Dimmed = Visibility{Alpha: 0.5}
	Hidden = Visibility{Alpha: 0}
)

// Form identifies an editor with an apply control.
type Form int

const (
	FormSettings Form = iota
	FormMarkers
)
