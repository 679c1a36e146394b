package config

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader       websocket.Upgrader
	MaxMessageSize int64
}

// NewWebSocket reads WS_ALLOWED_ORIGINS, a comma separated list where "*"
// allows every origin. Unset means same-origin only.
func NewWebSocket() (*WebSocket, error) {
	var origins []string
	if s := os.Getenv("WS_ALLOWED_ORIGINS"); s != "" {
		for _, o := range strings.Split(s, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}

	maxSize, err := lookupInt("WS_MAX_MESSAGE_SIZE", 4096)
	if err != nil {
		return nil, err
	}

	ws := &WebSocket{
		MaxMessageSize: int64(maxSize),
	}
	if len(origins) > 0 {
		ws.Upgrader.CheckOrigin = func(r *http.Request) bool {
			return slices.Contains(origins, "*") ||
				slices.Contains(origins, r.Header.Get("Origin"))
		}
	}

	return ws, nil
}
