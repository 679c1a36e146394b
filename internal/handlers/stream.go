package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vancomm/crystal-levels/internal/level"
)

const (
	FrameAttempt = "attempt"
	FrameLevel   = "level"
	FrameError   = "error"
)

// StreamFrame is one message sent down a generation stream. Every attempt
// yields an attempt frame; a request ends with a level or an error frame.
type StreamFrame struct {
	Type     string    `json:"type"`
	Attempt  int       `json:"attempt,omitempty"`
	Crystals int       `json:"crystals,omitempty"`
	Blocks   int       `json:"blocks,omitempty"`
	Error    string    `json:"error,omitempty"`
	Level    *LevelDTO `json:"level,omitempty"`
}

func attemptFrame(res level.AttemptResult) StreamFrame {
	f := StreamFrame{
		Type:     FrameAttempt,
		Attempt:  res.Attempt,
		Crystals: res.Crystals,
		Blocks:   res.Blocks,
	}
	if res.Err != nil {
		f.Error = res.Err.Error()
	}
	return f
}

// Stream upgrades to a websocket and treats every text message as a
// generation request shaped like GenerateLevelDTO. Streamed levels are
// previews and are not stored.
func (h LevelHandler) Stream(w http.ResponseWriter, r *http.Request) {
	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("unable to upgrade connection")
		return
	}
	defer c.Close()
	c.SetReadLimit(h.ws.MaxMessageSize)

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("unable to read message")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		var dto GenerateLevelDTO
		if err := json.Unmarshal(message, &dto); err != nil {
			if err := c.WriteJSON(StreamFrame{Type: FrameError, Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		if err := h.stream(c, r, dto); err != nil {
			h.log.WithError(err).Warn("unable to write frame")
			return
		}
	}
}

func (h LevelHandler) stream(c *websocket.Conn, r *http.Request, dto GenerateLevelDTO) error {
	params := dto.Params()
	if err := params.Validate(); err != nil {
		return c.WriteJSON(StreamFrame{Type: FrameError, Error: err.Error()})
	}

	seed := h.seed()
	if dto.Seed != nil {
		seed = *dto.Seed
	}

	var writeErr error
	opts := h.gen.Options()
	opts.OnAttempt = func(res level.AttemptResult) {
		if writeErr == nil {
			writeErr = c.WriteJSON(attemptFrame(res))
		}
	}

	lvl, err := level.NewGenerator(opts).GenerateSeed(r.Context(), params, seed)
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		return c.WriteJSON(StreamFrame{Type: FrameError, Error: err.Error()})
	}

	h.log.WithField("params", params.String()).WithField("attempts", lvl.Attempts).Debug("level streamed")
	return c.WriteJSON(StreamFrame{Type: FrameLevel, Level: NewLevelDTO(lvl)})
}
