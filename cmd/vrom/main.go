package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vrom/vrom/internal/bridge"
	"github.com/vrom/vrom/internal/command"
	"github.com/vrom/vrom/internal/config"
	"github.com/vrom/vrom/internal/console"
	"github.com/vrom/vrom/internal/geometry"
	"github.com/vrom/vrom/internal/journal"
	"github.com/vrom/vrom/internal/markers"
	"github.com/vrom/vrom/internal/tracking"
	"github.com/vrom/vrom/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	// the alt screen owns stdout, so logs go to a file or nowhere
	logger, closeLog, err := openLog(cfg.Log.Path)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()

	var recorder command.Recorder
	if cfg.Journal.Path != "" {
		db, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer db.Close()
		recorder = journal.NewRepo(db)
	}

	scene := tracking.NewScene(cfg.Scene.Reference, sceneObjects(cfg.Scene.Objects))
	store := markers.NewStore(map[markers.ID]geometry.Vector3{
		markers.Cylinders: vec(cfg.Markers.Cylinders),
		markers.Boxes:     vec(cfg.Markers.Boxes),
		markers.Spheres:   vec(cfg.Markers.Spheres),
	}, scene)

	addr := bridge.Address{Scheme: cfg.Bridge.Scheme, Host: cfg.Bridge.Host, Port: cfg.Bridge.Port}
	dialTimeout := time.Duration(cfg.Bridge.DialTimeoutMs) * time.Millisecond
	mgr := bridge.NewManager(addr, bridge.Options{
		Dialer:      bridge.WebsocketDialer{HandshakeTimeout: dialTimeout, WriteTimeout: 2 * time.Second},
		DialTimeout: dialTimeout,
		Logger:      logger,
	})
	if _, err := mgr.Open(ctx, addr); err != nil {
		logger.Printf("warn: starting disconnected: %v", err)
	}
	defer mgr.Close()

	view := tui.NewView()
	ctl := console.New(console.Deps{
		Conn: mgr,
		Commands: &command.Publisher{
			Sender:   mgr,
			Recorder: recorder,
			Logger:   logger,
			Now:      journal.Now,
		},
		Markers:   store,
		Scene:     scene,
		Presenter: view,
		Logger:    logger,
		ShowDebug: cfg.UI.ShowDebug,
	})

	p := tea.NewProgram(tui.New(ctx, ctl, view, mgr, scene, tui.Options{TargetFPS: cfg.UI.TargetFPS}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "vrom ", log.LstdFlags|log.Lmicroseconds), func() { _ = f.Close() }, nil
}

func sceneObjects(objs []config.ObjectConfig) []tracking.Object {
	out := make([]tracking.Object, 0, len(objs))
	for _, o := range objs {
		pose := geometry.Pose{Position: vec(o.Position), Orientation: geometry.Identity}
		if len(o.Orientation) == 4 {
			pose.Orientation = geometry.Quaternion{X: o.Orientation[0], Y: o.Orientation[1], Z: o.Orientation[2], W: o.Orientation[3]}
		}
		out = append(out, tracking.Object{ID: o.ID, Pose: pose})
	}
	return out
}

// vec expects a validated [x, y, z].
func vec(p []float64) geometry.Vector3 {
	return geometry.Vector3{X: p[0], Y: p[1], Z: p[2]}
}
