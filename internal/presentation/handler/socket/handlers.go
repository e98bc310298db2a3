package socket

import (
	"net/http"

	"github.com/barachat/gateway/internal/gateway"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	"github.com/gorilla/websocket"
)

type Handler struct {
	gw       *gateway.Gateway
	upgrader websocket.Upgrader
	logger   logging.Logger
}

func NewHandler(gw *gateway.Gateway, allowedOrigins []string, logger logging.Logger) *Handler {
	return &Handler{
		gw:     gw,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// ServeWS upgrades the request and hands the connection to the gateway.
// Authentication happens over the socket, not here.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.WebSocket, logging.Handshake, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.ClientIp:     r.RemoteAddr,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	h.gw.OnConnect(conn)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(r *http.Request) bool { return true }
		}
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		allowedSet[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowedSet[origin]
		return ok
	}
}
