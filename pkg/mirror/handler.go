package mirror

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Handler returns the mirror's HTTP routes:
//
//	GET /ws        websocket stream: one snapshot frame, then live batches
//	GET /snapshot  current document as HTML
func (m *Mirror) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", m.serveWS)
	r.Get("/snapshot", m.serveSnapshot)
	return r
}

func (m *Mirror) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  m.config.ReadBufferSize,
		WriteBufferSize: m.config.WriteBufferSize,
		CheckOrigin:     m.config.CheckOrigin,
	}
}

func (m *Mirror) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		m.logger.Warn("mirror: upgrade failed", "error", err)
		return
	}

	// Hold the lock across snapshot and registration so no batch is
	// flushed in between.
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.flushLocked(); err != nil {
		m.logger.Error("mirror: flush before snapshot", "error", err)
	}
	snap, err := m.snapshotLocked()
	if err != nil {
		m.logger.Error("mirror: snapshot failed", "error", err)
		conn.Close()
		return
	}
	m.hub.add(conn, snap)
}

func (m *Mirror) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(m.HTML()))
}
