package stream

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/olivierh59500/surface-tension-go/fluid"
)

func newSim(t *testing.T) *fluid.Simulation {
	t.Helper()
	sim, err := fluid.New(25, 160, 120, fluid.WithSeed(9))
	if err != nil {
		t.Fatalf("fluid.New() error = %v", err)
	}
	return sim
}

func waitClients(t *testing.T, h *hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d clients, want %d", h.count(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIndexPage(t *testing.T) {
	srv := httptest.NewServer(newHub().handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/ws") {
		t.Fatalf("GET / = %d, body without websocket path", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /nope = %d, want 404", resp.StatusCode)
	}
}

func TestBroadcastReachesClient(t *testing.T) {
	h := newHub()
	srv := httptest.NewServer(h.handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	waitClients(t, h, 1)

	sim := newSim(t)
	sim.Step()
	h.broadcast(snapshot(sim))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if f.Step != 1 || f.Width != 160 || f.Height != 120 {
		t.Fatalf("frame header = %d %vx%v, want 1 160x120", f.Step, f.Width, f.Height)
	}
	want := sim.Particles()
	if len(f.Particles) != len(want) || f.Particles[0] != want[0] {
		t.Fatalf("frame particles differ from snapshot")
	}

	conn.Close()
	waitClients(t, h, 0)
}

func TestBroadcastDoesNotBlockOnSlowClient(t *testing.T) {
	h := newHub()
	c := &client{send: make(chan frame, 1)}
	h.clients[c] = struct{}{}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			h.broadcast(frame{Step: uint64(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client")
	}
	if f := <-c.send; f.Step != 4 {
		t.Fatalf("queued frame step = %d, want latest 4", f.Step)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	sim := newSim(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Serve(ctx, sim, addr, 120) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestServeRejectsTickRate(t *testing.T) {
	sim := newSim(t)
	for _, tps := range []int{0, -5, 2e9} {
		if err := Serve(context.Background(), sim, "127.0.0.1:0", tps); err == nil {
			t.Fatalf("Serve(tps=%d) error = nil", tps)
		}
	}
}
