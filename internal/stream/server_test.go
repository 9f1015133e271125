package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/synapse/internal/engine"
	"github.com/san-kum/synapse/internal/graph"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.New(engine.Options{
		Graph: graph.Config{
			NodeCount:          12,
			LayerCount:         3,
			ConnectionDistance: 20,
			MaxOutDegree:       3,
			ParticleCount:      6,
			PaletteSize:        4,
			NodeSpeed:          0.05,
			Bounds:             graph.Bounds{W: 30, H: 20, D: 15},
		},
		Renderer: "flat",
		Driven:   true,
	})
	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("engine start: %v", err)
	}
	t.Cleanup(eng.Dispose)
	return eng
}

func dial(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamDeliversFrames(t *testing.T) {
	eng := newTestEngine(t)
	srv := NewServer(eng, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dial(t, ts.URL)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Type != "scene" {
		t.Errorf("frame type = %q, want scene", frame.Type)
	}
	if frame.State != "running" {
		t.Errorf("frame state = %q, want running", frame.State)
	}
	if len(frame.Scene.Nodes) != 12 {
		t.Errorf("snapshot nodes = %d, want 12", len(frame.Scene.Nodes))
	}
}

func TestCommandsSteerEngine(t *testing.T) {
	eng := newTestEngine(t)
	srv := NewServer(eng, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dial(t, ts.URL)

	send := func(cmd Command) {
		t.Helper()
		data, _ := json.Marshal(cmd)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	waitState := func(want engine.State) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if eng.State() == want {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatalf("state = %v, want %v", eng.State(), want)
	}

	send(Command{Type: "pause"})
	waitState(engine.StatePaused)

	send(Command{Type: "resume"})
	waitState(engine.StateRunning)

	send(Command{Type: "pointer", X: 3, Y: -2})
}

func TestClientDetach(t *testing.T) {
	eng := newTestEngine(t)
	srv := NewServer(eng, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dial(t, ts.URL)
	deadline := time.Now().Add(2 * time.Second)
	for srv.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := srv.ClientCount(); got != 1 {
		t.Fatalf("clients = %d, want 1", got)
	}

	conn.Close()
	for srv.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := srv.ClientCount(); got != 0 {
		t.Errorf("clients after close = %d, want 0", got)
	}
}
