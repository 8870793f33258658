// Package console is the operator console's state machine. It decides which
// screen is active, owns the text drafts behind the settings and markers
// editors, and dispatches apply and command intents to the bridge, the marker
// store and the command publisher.
//
// All methods are meant to be called from one goroutine, the one driving
// Tick.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/vrom/vrom/internal/bridge"
	"github.com/vrom/vrom/internal/command"
	"github.com/vrom/vrom/internal/geometry"
	"github.com/vrom/vrom/internal/markers"
	"github.com/vrom/vrom/internal/validate"
)

var (
	ErrNotActive    = errors.New("console: screen not active")
	ErrInvalidDraft = errors.New("console: draft has invalid fields")
)

// Connection is the part of bridge.Manager the console drives.
type Connection interface {
	Address() bridge.Address
	Reopen(ctx context.Context, addr bridge.Address) error
}

type CommandPublisher interface {
	Publish(ctx context.Context, topic string, obj *command.SelectedObject) error
}

type MarkerStore interface {
	Fields() [markers.FieldCount]string
	Apply(fields [markers.FieldCount]string) error
}

// Scene provides live poses of tracked objects.
type Scene interface {
	Pose(id string) (geometry.Pose, bool)
	Reference() (string, geometry.Pose, bool)
}

type Deps struct {
	Conn      Connection
	Commands  CommandPublisher
	Markers   MarkerStore
	Scene     Scene
	Presenter Presenter
	Logger    *log.Logger
	ShowDebug bool
}

// SettingsDraft is the text behind the address editor.
type SettingsDraft struct {
	IP   string
	Port string
}

type Controller struct {
	conn      Connection
	commands  CommandPublisher
	markers   MarkerStore
	scene     Scene
	view      Presenter
	log       *log.Logger
	current   Screen
	showDebug bool
	selected  *command.SelectedObject
	settings  SettingsDraft
	draft     [markers.FieldCount]string
}

// New builds a controller showing Main with every overlay hidden.
func New(d Deps) *Controller {
	c := &Controller{
		conn:      d.Conn,
		commands:  d.Commands,
		markers:   d.Markers,
		scene:     d.Scene,
		view:      d.Presenter,
		log:       d.Logger,
		current:   Main,
		showDebug: d.ShowDebug,
	}
	if c.view == nil {
		c.view = nopPresenter{}
	}
	if c.log == nil {
		c.log = log.New(io.Discard, "", 0)
	}
	c.view.SetVisibility(GroupMain, Shown)
	for _, g := range []Group{GroupSettings, GroupMarkers, GroupActionMenu, GroupExit} {
		c.view.SetVisibility(g, Hidden)
	}
	c.setDebugVisibility()
	return c
}

func (c *Controller) Current() Screen { return c.current }
func (c *Controller) DebugEnabled() bool { return c.showDebug }
func (c *Controller) SettingsDraft() SettingsDraft { return c.settings }
func (c *Controller) MarkersDraft() [markers.FieldCount]string { return c.draft }

// Selected returns a copy of the selected object, or nil.
func (c *Controller) Selected() *command.SelectedObject {
	if c.selected == nil {
		return nil
	}
	sel := *c.selected
	return &sel
}

// Activate makes s the current screen. Activating an overlay hides any other
// overlay and dims Main; activating Main restores it. Editors are pre-filled
// once on entry. Re-activating the current screen does nothing.
func (c *Controller) Activate(s Screen) error {
	if s == c.current {
		return nil
	}
	if s == ActionMenu && c.selected == nil {
		c.log.Printf("error: activate %s: %v", s, command.ErrNoSelection)
		return command.ErrNoSelection
	}
	prev := c.current
	c.leave(prev)
	if s == Main {
		c.view.SetVisibility(GroupMain, Shown)
		c.current = Main
		c.log.Printf("screen %s -> %s", prev, s)
		return nil
	}
	c.enter(s)
	c.view.SetVisibility(groupOf(s), Shown)
	c.view.SetVisibility(GroupMain, Dimmed)
	c.current = s
	c.log.Printf("screen %s -> %s", prev, s)
	return nil
}

// HandleBack deactivates the current overlay; on Main it opens the exit
// confirmation instead.
func (c *Controller) HandleBack() {
	to, ok := next(c.current, evBack)
	if !ok {
		return
	}
	_ = c.Activate(to)
}

// HandlePointerSelect selects the hit object and opens the action menu. It
// is ignored unless Main is current and something was hit.
func (c *Controller) HandlePointerSelect(objectID string, hit geometry.Vector3) bool {
	if c.current != Main || objectID == "" {
		return false
	}
	to, ok := next(Main, evSelect)
	if !ok {
		return false
	}
	pose := geometry.Pose{Position: hit, Orientation: geometry.Identity}
	if c.scene != nil {
		if p, ok := c.scene.Pose(objectID); ok {
			pose = p
		}
	}
	c.selected = &command.SelectedObject{ID: objectID, Pose: pose}
	return c.Activate(to) == nil
}

// Tick re-derives everything that depends on live state. It is safe to call
// any number of times.
func (c *Controller) Tick() {
	if c.showDebug {
		c.view.SetDebugText(c.debugText())
	}
	switch c.current {
	case Settings:
		ipOK := validate.IsValidIPv4(c.settings.IP)
		c.view.SetWarning(FormSettings, !ipOK)
		c.view.SetApplyEnabled(FormSettings, ipOK && validate.IsValidPort(c.settings.Port))
	case Markers:
		c.view.SetApplyEnabled(FormMarkers, markers.FieldsValid(c.draft))
	}
}

func (c *Controller) ToggleDebug() {
	c.showDebug = !c.showDebug
	c.setDebugVisibility()
}

func (c *Controller) ToggleSettings() { c.toggle(Settings) }

func (c *Controller) ToggleMarkers() { c.toggle(Markers) }

// EditSettings updates the address draft as the operator types.
func (c *Controller) EditSettings(ip, port string) {
	c.settings = SettingsDraft{IP: ip, Port: port}
}

// EditMarker updates one of the nine marker fields.
func (c *Controller) EditMarker(index int, text string) {
	if index < 0 || index >= len(c.draft) {
		return
	}
	c.draft[index] = text
}

// ApplySettings reconnects to ip:port. On a connection failure the settings
// screen stays open with the last working address restored.
func (c *Controller) ApplySettings(ctx context.Context, ip, port string) error {
	if c.current != Settings {
		return fmt.Errorf("apply settings: %w", ErrNotActive)
	}
	c.EditSettings(ip, port)
	if !validate.IsValidIPv4(ip) {
		c.view.SetStatus(fmt.Sprintf("invalid IP %q", ip), true)
		return fmt.Errorf("apply settings: ip %q: %w", ip, ErrInvalidDraft)
	}
	p, err := validate.ParsePort(port)
	if err != nil {
		c.view.SetStatus(fmt.Sprintf("invalid port %q", port), true)
		return fmt.Errorf("apply settings: %w", errors.Join(ErrInvalidDraft, err))
	}

	current := c.conn.Address()
	addr := bridge.Address{Scheme: current.Scheme, Host: strings.TrimSpace(ip), Port: p}
	if err := c.conn.Reopen(ctx, addr); err != nil {
		good := c.conn.Address()
		c.settings = SettingsDraft{IP: good.Host, Port: good.PortText()}
		c.view.SetSettingsFields(c.settings.IP, c.settings.Port)
		c.view.SetStatus("connection failed: "+err.Error(), true)
		c.log.Printf("apply settings %s: %v", addr, err)
		return err
	}
	c.view.SetStatus("connected to "+addr.String(), false)
	return c.Activate(Main)
}

// ApplyMarkers writes all nine fields to the marker store, or none of them.
func (c *Controller) ApplyMarkers(fields [markers.FieldCount]string) error {
	if c.current != Markers {
		return fmt.Errorf("apply markers: %w", ErrNotActive)
	}
	c.draft = fields
	if err := c.markers.Apply(fields); err != nil {
		c.view.SetStatus(err.Error(), true)
		return fmt.Errorf("apply markers: %w", err)
	}
	c.view.SetStatus("markers updated", false)
	return c.Activate(Main)
}

// SendCommand publishes topic about the selected object and returns to Main.
func (c *Controller) SendCommand(ctx context.Context, topic string) error {
	if c.current != ActionMenu {
		return fmt.Errorf("send %s: %w", topic, ErrNotActive)
	}
	if c.selected == nil {
		c.log.Printf("error: send %s in %s: %v", topic, c.current, command.ErrNoSelection)
		c.view.SetStatus("internal error: no object selected", true)
		return command.ErrNoSelection
	}
	if c.scene != nil {
		if p, ok := c.scene.Pose(c.selected.ID); ok {
			c.selected.Pose = p
		}
	}
	id := c.selected.ID
	if err := c.commands.Publish(ctx, topic, c.selected); err != nil {
		c.view.SetStatus(err.Error(), true)
		return err
	}
	c.view.SetStatus(fmt.Sprintf("sent %s for %s", topic, id), false)
	to, _ := next(ActionMenu, evSent)
	return c.Activate(to)
}

// Quit is the only way the console asks to terminate.
func (c *Controller) Quit() {
	c.log.Printf("quit requested from %s", c.current)
	c.view.Quit()
}

func (c *Controller) toggle(s Screen) {
	if c.current == s {
		_ = c.Activate(Main)
		return
	}
	_ = c.Activate(s)
}

func (c *Controller) enter(s Screen) {
	switch s {
	case Settings:
		a := c.conn.Address()
		c.settings = SettingsDraft{IP: a.Host, Port: a.PortText()}
		c.view.SetSettingsFields(c.settings.IP, c.settings.Port)
	case Markers:
		c.draft = c.markers.Fields()
		c.view.SetMarkerFields(c.draft)
	}
}

func (c *Controller) leave(s Screen) {
	if s == Main {
		return
	}
	c.view.SetVisibility(groupOf(s), Hidden)
	if s == ActionMenu {
		c.selected = nil
	}
}

func (c *Controller) setDebugVisibility() {
	if c.showDebug {
		c.view.SetVisibility(GroupDebug, Shown)
		c.view.SetDebugText(c.debugText())
		return
	}
	c.view.SetVisibility(GroupDebug, Hidden)
	c.view.SetDebugText("")
}

func (c *Controller) debugText() string {
	if c.selected != nil {
		pos := c.selected.Pose.Position
		if c.scene != nil {
			if p, ok := c.scene.Pose(c.selected.ID); ok {
				pos = p.Position
			}
		}
		return formatPosition(c.selected.ID, pos)
	}
	if c.scene == nil {
		return "No tracked object"
	}
	id, p, ok := c.scene.Reference()
	if !ok {
		return fmt.Sprintf("%s not tracked", id)
	}
	return formatPosition(id, p.Position)
}

func formatPosition(id string, p geometry.Vector3) string {
	return fmt.Sprintf("%s position:\n  x: %g\n  y: %g\n  z: %g", id, p.X, p.Y, p.Z)
}
