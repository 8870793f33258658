package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var defaultAddr = Address{Scheme: "ws", Host: "192.168.2.103", Port: 9090}

func TestOpenAdvertisesAllTopics(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	m := NewManager(defaultAddr, Options{Dialer: d})

	conn, err := m.Open(context.Background(), defaultAddr)
	require.NoError(t, err)
	require.True(t, conn.IsOpen())
	require.True(t, m.IsOpen())
	require.Equal(t, []string{"ws://192.168.2.103:9090"}, d.urls)

	adv := d.last().ops(opAdvertise)
	require.Len(t, adv, 4)
	got := map[string]string{}
	for _, f := range adv {
		got[f["topic"].(string)] = f["type"].(string)
		require.NotEmpty(t, f["id"])
	}
	require.Equal(t, map[string]string{
		"take_object":    "vrom_msgs/ObjectPose",
		"release_object": "vrom_msgs/ObjectPose",
		"action1":        "std_msgs/String",
		"action2":        "std_msgs/String",
	}, got)
}

func TestOpenReturnsSnapshot(t *testing.T) {
	t.Parallel()

	m := NewManager(defaultAddr, Options{Dialer: &fakeDialer{}})
	conn, err := m.Open(context.Background(), defaultAddr)
	require.NoError(t, err)

	// reading the handle while the manager closes must not race
	done := make(chan bool)
	go func() { done <- conn.IsOpen() }()
	require.NoError(t, m.Close())
	require.True(t, <-done)

	require.True(t, conn.IsOpen())
	require.Equal(t, defaultAddr, conn.Address)
	require.False(t, m.IsOpen())
}

func TestOpenTwiceFails(t *testing.T) {
	t.Parallel()

	m := NewManager(defaultAddr, Options{Dialer: &fakeDialer{}})
	_, err := m.Open(context.Background(), defaultAddr)
	require.NoError(t, err)
	_, err = m.Open(context.Background(), defaultAddr)
	require.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestOpenFailureIsConnectionError(t *testing.T) {
	t.Parallel()

	cause := errors.New("network unreachable")
	m := NewManager(defaultAddr, Options{Dialer: &fakeDialer{err: cause}})

	_, err := m.Open(context.Background(), defaultAddr)
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, cause)
	require.Equal(t, defaultAddr, ce.Address)
	require.False(t, m.IsOpen())
}

func TestCloseWithoutOpenIsNoop(t *testing.T) {
	t.Parallel()

	m := NewManager(defaultAddr, Options{Dialer: &fakeDialer{}})
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestReopenNeverOpened(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	m := NewManager(defaultAddr, Options{Dialer: d})
	next := Address{Scheme: "ws", Host: "10.0.0.5", Port: 9090}

	require.NoError(t, m.Reopen(context.Background(), next))
	require.Equal(t, next, m.Address())
	require.Len(t, d.last().ops(opAdvertise), 4)
	require.NoError(t, m.Publish(TopicAction1, TextMessage{Data: "hi"}))
}

func TestReopenClosesOldAndReadvertises(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	m := NewManager(defaultAddr, Options{Dialer: d})
	_, err := m.Open(context.Background(), defaultAddr)
	require.NoError(t, err)
	old := d.last()

	next := Address{Scheme: "ws", Host: "10.0.0.5", Port: 9090}
	require.NoError(t, m.Reopen(context.Background(), next))

	require.True(t, old.closed)
	require.Len(t, old.ops(opUnadvertise), 4)
	require.Equal(t, []string{"ws://192.168.2.103:9090", "ws://10.0.0.5:9090"}, d.urls)

	fresh := d.last()
	require.NotSame(t, old, fresh)
	require.Len(t, fresh.ops(opAdvertise), 4)
	for _, topic := range Topics {
		require.NoError(t, m.Publish(topic.Name, TextMessage{Data: "x"}))
	}
	require.Len(t, fresh.ops(opPublish), 4)
	require.Empty(t, old.ops(opPublish))
}

func TestReopenFailureKeepsLastKnownGood(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	m := NewManager(defaultAddr, Options{Dialer: d})
	_, err := m.Open(context.Background(), defaultAddr)
	require.NoError(t, err)

	d.err = errors.New("refused")
	err = m.Reopen(context.Background(), Address{Scheme: "ws", Host: "10.0.0.9", Port: 1})
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, defaultAddr, m.Address())
	require.False(t, m.IsOpen())
	require.ErrorIs(t, m.Publish(TopicAction1, TextMessage{}), ErrNotConnected)
}

func TestPublishWithoutConnection(t *testing.T) {
	t.Parallel()

	m := NewManager(defaultAddr, Options{Dialer: &fakeDialer{}})
	require.ErrorIs(t, m.Publish(TopicTakeObject, PoseMessage{}), ErrNotConnected)
}

func TestPublishUnknownTopic(t *testing.T) {
	t.Parallel()

	m := NewManager(defaultAddr, Options{Dialer: &fakeDialer{}})
	_, err := m.Open(context.Background(), defaultAddr)
	require.NoError(t, err)
	require.ErrorIs(t, m.Publish("cmd_vel", TextMessage{}), ErrNotAdvertised)
}

func TestPublishOnStaleSocketDropsConnection(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	m := NewManager(defaultAddr, Options{Dialer: d})
	_, err := m.Open(context.Background(), defaultAddr)
	require.NoError(t, err)

	d.last().failNext = errors.New("broken pipe")
	err = m.Publish(TopicAction2, TextMessage{Data: "x"})
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	require.False(t, m.IsOpen())

	// no automatic retry
	require.ErrorIs(t, m.Publish(TopicAction2, TextMessage{Data: "x"}), ErrNotConnected)
	require.Len(t, d.urls, 1)
}

func TestConcurrentReopenSerializes(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	m := NewManager(defaultAddr, Options{Dialer: d})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Reopen(context.Background(), defaultAddr)
		}()
	}
	wg.Wait()

	open := 0
	for _, c := range d.conns {
		if !c.closed {
			open++
		}
	}
	require.Equal(t, 1, open)
	require.True(t, m.IsOpen())
}

func TestWebsocketTransport(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	frames := make(chan map[string]any, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				return
			}
			var f map[string]any
			if json.Unmarshal(data, &f) == nil {
				frames <- f
			}
		}
	}))
	t.Cleanup(srv.Close)

	hostPort := strings.TrimPrefix(srv.URL, "http://")
	idx := strings.LastIndex(hostPort, ":")
	port, err := strconv.Atoi(hostPort[idx+1:])
	require.NoError(t, err)
	addr := Address{Scheme: "ws", Host: hostPort[:idx], Port: port}

	m := NewManager(addr, Options{DialTimeout: 2 * time.Second})
	_, err = m.Open(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Publish(TopicTakeObject, PoseMessage{FrameID: "cube", Orientation: Orientation{W: 1}}))

	var topics []string
	for len(topics) < 5 {
		select {
		case f := <-frames:
			topics = append(topics, f["op"].(string)+":"+f["topic"].(string))
			if f["op"] == opPublish {
				msg := f["msg"].(map[string]any)
				require.Equal(t, "cube", msg["frame_id"])
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frames, got %v", topics)
		}
	}
	require.Equal(t, []string{
		"advertise:take_object",
		"advertise:release_object",
		"advertise:action1",
		"advertise:action2",
		"publish:take_object",
	}, topics)
}
