package hostvm

import (
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nullsector/corevm/pkg/logger"
)

var traceUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TraceWatch publishes debug trace lines (§4.3 step 6) to connected
// websocket clients, in addition to the local stdout/log trace output.
// It is purely additive: a VM run with no TraceWatch attached behaves
// exactly as if this file did not exist.
type TraceWatch struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	server  *http.Server
}

// NewTraceWatch starts an HTTP server on addr exposing a "/trace"
// websocket endpoint and returns a handle for publishing lines to it.
func NewTraceWatch(addr string) (*TraceWatch, error) {
	tw := &TraceWatch{clients: make(map[*websocket.Conn]struct{})}

	mux := http.NewServeMux()
	mux.HandleFunc("/trace", tw.handleConn)
	tw.server = &http.Server{Addr: addr, Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := tw.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Warn(logger.AreaVM, "trace watch server stopped: %v", err)
		}
	}()
	return tw, nil
}

func (tw *TraceWatch) handleConn(w http.ResponseWriter, r *http.Request) {
	conn, err := traceUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn(logger.AreaVM, "trace watch upgrade failed: %v", err)
		return
	}
	tw.mu.Lock()
	tw.clients[conn] = struct{}{}
	tw.mu.Unlock()

	go func() {
		defer tw.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (tw *TraceWatch) removeClient(conn *websocket.Conn) {
	tw.mu.Lock()
	delete(tw.clients, conn)
	tw.mu.Unlock()
	conn.Close()
}

// Publish broadcasts a trace line to every connected client, dropping
// clients that fail to accept the write.
func (tw *TraceWatch) Publish(line string) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	for conn := range tw.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			conn.Close()
			delete(tw.clients, conn)
		}
	}
}

// Close shuts down the trace watch server and disconnects all clients.
func (tw *TraceWatch) Close() error {
	tw.mu.Lock()
	for conn := range tw.clients {
		conn.Close()
	}
	tw.clients = nil
	tw.mu.Unlock()
	return tw.server.Close()
}
