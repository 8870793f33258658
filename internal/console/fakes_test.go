package console

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/vrom/vrom/internal/bridge"
	"github.com/vrom/vrom/internal/markers"
)

type fakePresenter struct {
	vis           map[Group]Visibility
	ip, port      string
	markerFields  [markers.FieldCount]string
	apply         map[Form]bool
	warn          map[Form]bool
	debug         string
	status        string
	statusErr     bool
	settingsFills int
	markerFills   int
	quits         int
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{
		vis:   map[Group]Visibility{},
		apply: map[Form]bool{},
		warn:  map[Form]bool{},
	}
}

func (p *fakePresenter) SetVisibility(g Group, v Visibility) { p.vis[g] = v }

func (p *fakePresenter) SetSettingsFields(ip, port string) {
	p.ip, p.port = ip, port
	p.settingsFills++
}

func (p *fakePresenter) SetMarkerFields(fields [markers.FieldCount]string) {
	p.markerFields = fields
	p.markerFills++
}

func (p *fakePresenter) SetApplyEnabled(f Form, enabled bool) { p.apply[f] = enabled }
func (p *fakePresenter) SetWarning(f Form, visible bool) { p.warn[f] = visible }
func (p *fakePresenter) SetDebugText(text string) { p.debug = text }

func (p *fakePresenter) SetStatus(text string, isErr bool) {
	p.status, p.statusErr = text, isErr
}

func (p *fakePresenter) Quit() { p.quits++ }

// fakeDialer hands out sockets that keep every frame.
type fakeDialer struct {
	mu    sync.Mutex
	urls  []string
	socks []*fakeSock
	err   error
}

func (d *fakeDialer) Dial(_ context.Context, url string) (bridge.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	if d.err != nil {
		return nil, d.err
	}
	s := &fakeSock{}
	d.socks = append(d.socks, s)
	return s, nil
}

func (d *fakeDialer) last() *fakeSock {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.socks[len(d.socks)-1]
}

type fakeSock struct {
	frames []map[string]any
	closed bool
}

func (s *fakeSock) WriteJSON(v any) error {
	if s.closed {
		return errors.New("closed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	s.frames = append(s.frames, m)
	return nil
}

func (s *fakeSock) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSock) count(op string) int {
	n := 0
	for _, f := range s.frames {
		if f["op"] == op {
			n++
		}
	}
	return n
}

func (s *fakeSock) published() []map[string]any {
	var out []map[string]any
	for _, f := range s.frames {
		if f["op"] == "publish" {
			out = append(out, f)
		}
	}
	return out
}
