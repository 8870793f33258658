// Package tui drives the console controller from a terminal: keys become
// operator intents, a fixed-rate tick drives Controller.Tick, and View
// renders whatever the controller presented.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vrom/vrom/internal/bridge"
	"github.com/vrom/vrom/internal/console"
	"github.com/vrom/vrom/internal/markers"
	"github.com/vrom/vrom/internal/tracking"
)

// Conn reports the bridge state shown in the header.
type Conn interface {
	Address() bridge.Address
	IsOpen() bool
}

// Scene resolves what the operator points at.
type Scene interface {
	HitTest(target string) (tracking.Hit, bool)
	IDs() []string
}

type Options struct {
	TargetFPS int
}

type Model struct {
	ctx    context.Context
	ctl    *console.Controller
	view   *View
	conn   Conn
	scene  Scene
	keys   keyMap
	frame  time.Duration
	width  int
	height int

	picking bool
	pick    textinput.Model

	// screen the focus was last synced for
	focused console.Screen
	field   int
}

type tickMsg time.Time

func New(ctx context.Context, ctl *console.Controller, view *View, conn Conn, scene Scene, opts Options) *Model {
	fps := opts.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	pick := textinput.New()
	pick.Prompt = "select> "
	pick.Placeholder = "object name"
	return &Model{
		ctx:     ctx,
		ctl:     ctl,
		view:    view,
		conn:    conn,
		scene:   scene,
		keys:    defaultKeys(),
		frame:   time.Second / time.Duration(fps),
		pick:    pick,
		focused: console.Main,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		m.ctl.Tick()
		return m, m.tick()
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		if m.view.quitting {
			return m, tea.Quit
		}
		return m, tea.Batch(cmd, m.syncFocus())
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.ctl.Quit()
		return nil
	}
	if m.picking {
		return m.handlePickKey(msg)
	}
	switch m.ctl.Current() {
	case console.Settings:
		return m.handleSettingsKey(msg)
	case console.Markers:
		return m.handleMarkersKey(msg)
	case console.ActionMenu:
		return m.handleActionKey(msg)
	case console.Exit:
		return m.handleExitKey(msg)
	default:
		return m.handleMainKey(msg)
	}
}

func (m *Model) handleMainKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Exit):
		m.ctl.HandleBack()
	case key.Matches(msg, m.keys.Debug):
		m.ctl.ToggleDebug()
	case key.Matches(msg, m.keys.Settings):
		m.ctl.ToggleSettings()
	case key.Matches(msg, m.keys.Markers):
		m.ctl.ToggleMarkers()
	case key.Matches(msg, m.keys.Pick):
		m.picking = true
		m.pick.SetValue("")
		return m.pick.Focus()
	default:
		// digits point at the listed objects
		if n, err := strconv.Atoi(msg.String()); err == nil {
			ids := m.scene.IDs()
			if n >= 1 && n <= len(ids) {
				m.selectTarget(ids[n-1])
			}
		}
	}
	return nil
}

func (m *Model) handlePickKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.endPick()
		return nil
	case key.Matches(msg, m.keys.Apply):
		target := m.pick.Value()
		m.endPick()
		m.selectTarget(target)
		return nil
	}
	var cmd tea.Cmd
	m.pick, cmd = m.pick.Update(msg)
	return cmd
}

func (m *Model) endPick() {
	m.picking = false
	m.pick.Blur()
}

func (m *Model) selectTarget(target string) {
	hit, ok := m.scene.HitTest(target)
	if !ok {
		m.view.SetStatus(fmt.Sprintf("nothing tracked matches %q", target), true)
		return
	}
	m.ctl.HandlePointerSelect(hit.ObjectID, hit.Position)
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctl.HandleBack()
		return nil
	case key.Matches(msg, m.keys.Apply):
		if !m.view.apply[console.FormSettings] {
			return nil
		}
		// failures are presented by the controller
		_ = m.ctl.ApplySettings(m.ctx, m.view.ip.Value(), m.view.port.Value())
		return nil
	}
	cmd, edited := m.editForm(console.GroupSettings, msg)
	if edited {
		m.ctl.EditSettings(m.view.ip.Value(), m.view.port.Value())
	}
	return cmd
}

func (m *Model) handleMarkersKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctl.HandleBack()
		return nil
	case key.Matches(msg, m.keys.Apply):
		if !m.view.apply[console.FormMarkers] {
			return nil
		}
		var fields [markers.FieldCount]string
		for i := range m.view.marks {
			fields[i] = m.view.marks[i].Value()
		}
		_ = m.ctl.ApplyMarkers(fields)
		return nil
	}
	cmd, edited := m.editForm(console.GroupMarkers, msg)
	if edited {
		m.ctl.EditMarker(m.field, m.view.marks[m.field].Value())
	}
	return cmd
}

// editForm moves focus between a form's inputs or forwards the key to the
// focused one. edited is true when the key went to an input.
func (m *Model) editForm(g console.Group, msg tea.KeyMsg) (tea.Cmd, bool) {
	inputs := m.view.editors(g)
	if len(inputs) == 0 {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.focusField(inputs, (m.field+1)%len(inputs)), false
	case key.Matches(msg, m.keys.Prev):
		return m.focusField(inputs, (m.field+len(inputs)-1)%len(inputs)), false
	}
	in := inputs[m.field]
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd, true
}

func (m *Model) focusField(inputs []*textinput.Model, idx int) tea.Cmd {
	for _, in := range inputs {
		in.Blur()
	}
	m.field = idx
	return inputs[idx].Focus()
}

// syncFocus focuses the first input whenever a form screen was just entered.
func (m *Model) syncFocus() tea.Cmd {
	cur := m.ctl.Current()
	if cur == m.focused {
		return nil
	}
	m.focused = cur
	m.field = 0
	for _, g := range []console.Group{console.GroupSettings, console.GroupMarkers} {
		for _, in := range m.view.editors(g) {
			in.Blur()
		}
	}
	var g console.Group
	switch cur {
	case console.Settings:
		g = console.GroupSettings
	case console.Markers:
		g = console.GroupMarkers
	default:
		return nil
	}
	return m.focusField(m.view.editors(g), 0)
}

func (m *Model) handleActionKey(msg tea.KeyMsg) tea.Cmd {
	var topic string
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctl.HandleBack()
		return nil
	case key.Matches(msg, m.keys.Take):
		topic = bridge.TopicTakeObject
	case key.Matches(msg, m.keys.Release):
		topic = bridge.TopicReleaseObject
	case key.Matches(msg, m.keys.Action1):
		topic = bridge.TopicAction1
	case key.Matches(msg, m.keys.Action2):
		topic = bridge.TopicAction2
	default:
		return nil
	}
	_ = m.ctl.SendCommand(m.ctx, topic)
	return nil
}

func (m *Model) handleExitKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.ctl.Quit()
	case key.Matches(msg, m.keys.Deny), key.Matches(msg, m.keys.Back):
		m.ctl.HandleBack()
	}
	return nil
}
