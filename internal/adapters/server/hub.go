package server

import (
	"bufio"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
)

var _ ports.Reloader = (*LiveReloadHub)(nil)

const (
	heartbeatInterval = 30 * time.Second
	clientBuffer      = 8
)

// reloadMessage is the payload of one live-reload event.
type reloadMessage struct {
	Kind  domain.ReloadKind `json:"kind"`
	Paths []string          `json:"paths"`
}

// LiveReloadHub fans reload notifications out to browsers connected over server-sent events.
type LiveReloadHub struct {
	recorder ports.Recorder

	mu      sync.RWMutex
	nextID  int
	clients map[int]*hubClient
	closed  bool
}

type hubClient struct {
	ch   chan []byte
	done chan struct{}
}

// NewLiveReloadHub creates a hub. The recorder may be nil.
func NewLiveReloadHub(recorder ports.Recorder) *LiveReloadHub {
	return &LiveReloadHub{
		recorder: recorder,
		clients:  make(map[int]*hubClient),
	}
}

// ServeHTTP streams reload events to one client until it disconnects or the hub shuts down.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	id, client, ok := h.register()
	if !ok {
		http.Error(w, "live reload shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	write := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !write(": connected\n\n") {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			if !write(": ping\n\n") {
				return
			}
		case msg := <-client.ch:
			if !write("data: " + string(msg) + "\n\n") {
				return
			}
		}
	}
}

// Reload broadcasts a change to every connected client. Clients that cannot keep up are dropped.
func (h *LiveReloadHub) Reload(kind domain.ReloadKind, paths ...string) {
	if paths == nil {
		paths = []string{}
	}
	msg, err := json.Marshal(reloadMessage{Kind: kind, Paths: paths})
	if err != nil {
		return
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	var dropped []int
	for id, c := range h.clients {
		select {
		case c.ch <- msg:
		default:
			dropped = append(dropped, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range dropped {
		h.remove(id)
	}

	if h.recorder != nil {
		h.recorder.IncReload(string(kind))
	}
}

// Clients returns the number of connected clients.
func (h *LiveReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every client and ignores further broadcasts.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[int]*hubClient)
	h.mu.Unlock()

	for _, c := range clients {
		close(c.done)
	}
	h.reportClients(0)
}

func (h *LiveReloadHub) register() (int, *hubClient, bool) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0, nil, false
	}
	id := h.nextID
	h.nextID++
	client := &hubClient{ch: make(chan []byte, clientBuffer), done: make(chan struct{})}
	h.clients[id] = client
	n := len(h.clients)
	h.mu.Unlock()

	h.reportClients(n)
	return id, client, true
}

func (h *LiveReloadHub) remove(id int) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.reportClients(n)
	}
}

func (h *LiveReloadHub) reportClients(n int) {
	if h.recorder != nil {
		h.recorder.SetReloadClients(n)
	}
}
