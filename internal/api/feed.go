package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Mask13/IS601-Midterm/internal/calculation"
)

// feed fans each new calculation record out to connected websocket clients.
// It holds its own lock: broadcast runs on the engine's caller, while
// connects and disconnects arrive on server goroutines.
type feed struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newFeed() *feed {
	return &feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// serve upgrades the request and keeps the connection registered until the
// client goes away. The read loop exists only to observe the close.
func (f *feed) serve(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	f.mu.Lock()
	f.conns[conn] = struct{}{}
	f.mu.Unlock()

	logger.Info("history feed client connected",
		zap.String("remote", conn.RemoteAddr().String()),
	)

	go func() {
		defer f.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast sends the record to every connected client, dropping clients
// whose writes fail.
func (f *feed) broadcast(rec calculation.Record) {
	payload := newRecordPayload(rec)

	f.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(f.conns))
	for conn := range f.conns {
		conns = append(conns, conn)
	}
	f.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			f.drop(conn)
		}
	}
}

func (f *feed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	if _, ok := f.conns[conn]; ok {
		delete(f.conns, conn)
		conn.Close()
	}
	f.mu.Unlock()
}
