package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/requests"
	"github.com/foomo/sitegen/responses"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	socketWriteWait    = 10 * time.Second
	socketMaxReadBytes = 64 << 10
)

// socket serializes writes of a single generation stream
type socket struct {
	l    *zap.Logger
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) send(msg responses.StreamMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.l.Debug("could not write stream message", zap.String("type", string(msg.Type)), zap.Error(err))
	}
}

func (s *socket) close(code int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(socketWriteWait))
	_ = s.conn.Close()
}

// handleGenerateStream reads the generator inputs as the first message, streams progress
// messages while generating and finishes with the stored site or an error.
func (h *HTTP) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := "success"
	defer func() {
		metrics.ServiceRequestCounter.WithLabelValues(string(RouteGenerateStream), result).Inc()
		metrics.ServiceRequestDuration.WithLabelValues(string(RouteGenerateStream), result).Observe(time.Since(start).Seconds())
	}()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied
		result = "error"
		h.l.Warn("could not upgrade connection", zap.Error(err))
		return
	}
	metrics.NumSocketsGauge.WithLabelValues().Inc()
	defer metrics.NumSocketsGauge.WithLabelValues().Dec()

	l := h.l.With(zap.String("route", string(RouteGenerateStream)), zap.String("remote", r.RemoteAddr))
	s := &socket{l: l, conn: conn}
	conn.SetReadLimit(socketMaxReadBytes)

	var inputs requests.Generate
	if err := conn.ReadJSON(&inputs); err != nil {
		result = "error"
		l.Info("could not read generator inputs", zap.Error(err))
		s.send(responses.NewStreamError("Invalid JSON message"))
		s.close(websocket.CloseUnsupportedData, "invalid inputs")
		return
	}

	site, err := h.generate(r.Context(), inputs, func(message string) {
		s.send(responses.NewStatus(message))
	})
	if err != nil {
		result = "error"
		status, message := h.errorStatus(err)
		if status >= http.StatusInternalServerError {
			l.Error("generation failed", zap.Error(err))
		} else {
			l.Info("generation rejected", zap.Error(err))
		}
		s.send(responses.NewStreamError(message))
		s.close(websocket.CloseNormalClosure, "")
		return
	}
	s.send(responses.NewSite(site))
	s.close(websocket.CloseNormalClosure, "")
}
