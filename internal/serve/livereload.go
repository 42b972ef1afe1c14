package serve

import (
	"fmt"
	"net/http"
	"sync"
)

// reloadPath is the SSE endpoint the injected client script subscribes to.
const reloadPath = "/__livereload"

// reloadScript is injected before </body> of served HTML pages.
const reloadScript = `<script>new EventSource("` + reloadPath + `").addEventListener("reload",function(){location.reload()});</script>`

// ReloadHub fans a reload signal out to connected browser tabs over
// server-sent events.
type ReloadHub struct {
	mu      sync.Mutex
	clients map[chan struct{}]struct{}
}

func NewReloadHub() *ReloadHub {
	return &ReloadHub{clients: make(map[chan struct{}]struct{})}
}

// Broadcast signals every connected client to reload.
func (h *ReloadHub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ClientCount reports the number of connected tabs.
func (h *ReloadHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *ReloadHub) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *ReloadHub) unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// ServeHTTP implements the SSE endpoint.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			fmt.Fprint(w, "event: reload\ndata: now\n\n")
			flusher.Flush()
		}
	}
}
