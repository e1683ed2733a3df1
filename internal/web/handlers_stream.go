package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/taller/internal/logging"
	"github.com/JonMunkholm/taller/internal/session"
	"github.com/go-chi/chi/v5"
)

// handleWebSocket upgrades the request and binds the connection to the
// session id until the client disconnects. Incoming frames are ignored.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	logger := logging.WithFields(r.Context(), "session_id", id)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	ch := session.NewWSChannel(conn, session.DefaultQueueSize)
	s.sessions.Register(id, ch)
	logger.Info("progress channel opened", "transport", "websocket")

	ch.Run()

	s.sessions.Release(id, ch)
	logger.Info("progress channel closed", "transport", "websocket")
}

// handleProgressStream serves the same progress events over
// Server-Sent Events for clients that cannot use WebSockets.
func (s *Server) handleProgressStream(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	logger := logging.WithFields(r.Context(), "session_id", id)

	ch := session.NewSSEChannel(session.DefaultQueueSize)
	s.sessions.Register(id, ch)
	logger.Info("progress channel opened", "transport", "sse")

	if err := ch.Serve(w, r); err != nil {
		logger.Warn("progress stream ended with error", "error", err)
	}

	s.sessions.Release(id, ch)
	_ = ch.Close()
	logger.Info("progress channel closed", "transport", "sse")
}
