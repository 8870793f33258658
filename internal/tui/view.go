package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/vrom/vrom/internal/console"
	"github.com/vrom/vrom/internal/markers"
)

// View is the terminal side of console.Presenter: it keeps whatever the
// controller last pushed and the text inputs backing the editors.
type View struct {
	vis       map[console.Group]console.Visibility
	ip        textinput.Model
	port      textinput.Model
	marks     [markers.FieldCount]textinput.Model
	apply     map[console.Form]bool
	warn      map[console.Form]bool
	debug     string
	status    string
	statusErr bool
	quitting  bool
}

func NewView() *View {
	v := &View{
		vis:   map[console.Group]console.Visibility{},
		apply: map[console.Form]bool{},
		warn:  map[console.Form]bool{},
	}
	v.ip = newInput("IP   ", 15)
	v.port = newInput("Port ", 5)
	for i := range v.marks {
		v.marks[i] = newInput(markers.Axes[i%3]+" ", 16)
	}
	return v
}

func newInput(prompt string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.CharLimit = limit
	in.Width = 16
	return in
}

func (v *View) SetVisibility(g console.Group, vis console.Visibility) { v.vis[g] = vis }

func (v *View) SetSettingsFields(ip, port string) {
	v.ip.SetValue(ip)
	v.port.SetValue(port)
}

func (v *View) SetMarkerFields(fields [markers.FieldCount]string) {
	for i, f := range fields {
		v.marks[i].SetValue(f)
	}
}

func (v *View) SetApplyEnabled(f console.Form, enabled bool) { v.apply[f] = enabled }

func (v *View) SetWarning(f console.Form, visible bool) { v.warn[f] = visible }

func (v *View) SetDebugText(text string) { v.debug = text }

func (v *View) SetStatus(text string, isErr bool) {
	v.status, v.statusErr = text, isErr
}

func (v *View) Quit() { v.quitting = true }

// shown reports whether g is fully visible.
func (v *View) shown(g console.Group) bool { return v.vis[g].Alpha >= 1 }

// overlay returns the visible overlay group, if any.
func (v *View) overlay() (console.Group, bool) {
	for _, g := range []console.Group{console.GroupSettings, console.GroupMarkers, console.GroupActionMenu, console.GroupExit} {
		if v.shown(g) {
			return g, true
		}
	}
	return 0, false
}

// editors returns the inputs of the form behind g, in tab order.
func (v *View) editors(g console.Group) []*textinput.Model {
	switch g {
	case console.GroupSettings:
		return []*textinput.Model{&v.ip, &v.port}
	case console.GroupMarkers:
		out := make([]*textinput.Model, len(v.marks))
		for i := range v.marks {
			out[i] = &v.marks[i]
		}
		return out
	default:
		return nil
	}
}
