package device

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const (
	streamWriteWait    = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

// handleConsoleStream pushes console entries over a WebSocket as they are
// appended. The optional "after" query parameter resumes after a sequence number.
func (s *Server) handleConsoleStream(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeText(w, http.StatusBadRequest, "invalid after parameter")
			return
		}
		after = n
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("console stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Info("console stream opened", "remote", r.RemoteAddr, "after", after)

	// Read loop only drains control frames and notices the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		// Take the wake channel before reading so no Add can slip between.
		changed := s.device.Console.Changed()
		for _, entry := range s.device.Console.Since(after) {
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(entry); err != nil {
				s.logger.Debug("console stream write failed", "error", err)
				return
			}
			after = entry.Seq
		}

		select {
		case <-changed:
		case <-closed:
			s.logger.Info("console stream closed", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}
