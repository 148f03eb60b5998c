// Package stream serves a simulation to browsers over a websocket.
package stream

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/olivierh59500/surface-tension-go/fluid"
)

//go:embed web/index.html
var indexHTML []byte

const (
	writeWait       = 5 * time.Second
	shutdownTimeout = 3 * time.Second
)

// frame is one snapshot pushed to every browser.
type frame struct {
	Step      uint64           `json:"step"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	Particles []fluid.Particle `json:"particles"`
}

// upgrader accepts any origin; the page is served from the same host.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client holds the latest undelivered frame; slow readers skip frames.
type client struct {
	conn *websocket.Conn
	send chan frame
}

// hub fans frames out to the connected browsers.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("client %s connected", c.conn.RemoteAddr())
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		close(c.send)
		log.Printf("client %s disconnected", c.conn.RemoteAddr())
	}
}

// broadcast hands f to every client without blocking the simulation.
func (h *hub) broadcast(f frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- f:
		default:
			// Drop the stale frame and queue the new one.
			select {
			case <-c.send:
			default:
			}
			select {
			case c.send <- f:
			default:
			}
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.conn.Close()
		h.remove(c)
	}
}

func (h *hub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", h.wsEndpoint)
	return mux
}

// wsEndpoint defines the websocket connection endpoint
func (h *hub) wsEndpoint(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		var hs websocket.HandshakeError
		if !errors.As(err, &hs) {
			log.Println(err)
		}
		return
	}
	c := &client{conn: conn, send: make(chan frame, 1)}
	h.add(c)
	go h.writer(c)
	go h.reader(c)
}

func (h *hub) writer(c *client) {
	defer c.conn.Close()
	for f := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(f); err != nil {
			log.Printf("write to %s: %v", c.conn.RemoteAddr(), err)
			h.remove(c)
			return
		}
	}
}

// reader drains control frames and notices when the browser goes away.
func (h *hub) reader(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read from %s: %v", c.conn.RemoteAddr(), err)
			}
			return
		}
	}
}

func snapshot(sim *fluid.Simulation) frame {
	return frame{
		Step:      sim.Steps(),
		Width:     sim.Width(),
		Height:    sim.Height(),
		Particles: sim.Particles(),
	}
}

// Serve steps sim tps times per second and streams every snapshot to the
// browsers connected at addr until ctx is done. sim is only touched by the
// stepping goroutine.
func Serve(ctx context.Context, sim *fluid.Simulation, addr string, tps int) error {
	if tps <= 0 || time.Second/time.Duration(tps) == 0 {
		return fmt.Errorf("stream: tick rate %d out of range", tps)
	}
	h := newHub()
	srv := &http.Server{Addr: addr, Handler: h.handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("serving on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		h.closeAll()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second / time.Duration(tps))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				sim.Step()
				h.broadcast(snapshot(sim))
			}
		}
	})
	return g.Wait()
}
