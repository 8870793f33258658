// Package command turns an operator's command about a selected object into a
// middleware message and hands it to the bridge.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/vrom/vrom/internal/bridge"
	"github.com/vrom/vrom/internal/geometry"
)

var (
	// ErrNoSelection means a command was issued with nothing selected. The
	// console never enters the action menu without a selection, so seeing
	// this is a state machine bug.
	ErrNoSelection  = errors.New("command: no object selected")
	ErrUnknownTopic = errors.New("command: unknown topic")
)

// SelectedObject is the tracked entity the operator picked.
type SelectedObject struct {
	ID   string
	Pose geometry.Pose
}

// Sender is the part of bridge.Manager the publisher needs.
type Sender interface {
	Publish(topic string, msg any) error
}

// Entry is one successfully published command.
type Entry struct {
	Topic   string
	FrameID string
	Payload any
	SentAt  time.Time
}

// Recorder keeps a trail of published commands.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

type Publisher struct {
	Sender   Sender
	Recorder Recorder
	Logger   *log.Logger
	Now      func() time.Time
}

// Publish sends the command for topic about obj. It returns once the
// message is handed to the connection.
func (p *Publisher) Publish(ctx context.Context, topic string, obj *SelectedObject) error {
	logger := p.logger()
	if obj == nil || obj.ID == "" {
		logger.Printf("error: publish %s: %v", topic, ErrNoSelection)
		return ErrNoSelection
	}
	t, ok := bridge.LookupTopic(topic)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}

	msg := BuildMessage(t, obj)
	if err := p.Sender.Publish(t.Name, msg); err != nil {
		return fmt.Errorf("publish %s for %s: %w", t.Name, obj.ID, err)
	}
	logger.Printf("published %s for %s", t.Name, obj.ID)

	if p.Recorder != nil {
		e := Entry{Topic: t.Name, FrameID: obj.ID, Payload: msg, SentAt: p.now()}
		if err := p.Recorder.Record(ctx, e); err != nil {
			logger.Printf("warn: journal %s: %v", t.Name, err)
		}
	}
	return nil
}

// BuildMessage renders the payload for t. Pose topics carry the object's
// pose converted into the middleware frame.
func BuildMessage(t bridge.Topic, obj *SelectedObject) any {
	if t.Kind == bridge.KindText {
		return bridge.TextMessage{Data: fmt.Sprintf("%s with object '%s'", actionLabel(t.Name), obj.ID)}
	}
	remote := obj.Pose.ToRemote()
	return bridge.PoseMessage{
		FrameID: obj.ID,
		Position: bridge.Point{
			X: remote.Position.X,
			Y: remote.Position.Y,
			Z: remote.Position.Z,
		},
		Orientation: bridge.Orientation{
			X: remote.Orientation.X,
			Y: remote.Orientation.Y,
			Z: remote.Orientation.Z,
			W: remote.Orientation.W,
		},
	}
}

func actionLabel(topic string) string {
	switch topic {
	case bridge.TopicAction1:
		return "Action 1"
	case bridge.TopicAction2:
		return "Action 2"
	default:
		return topic
	}
}

func (p *Publisher) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return p.Logger
}

func (p *Publisher) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now()
}
