package server

import (
	"context"
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// handleWebSocket upgrades the connection and bridges it to the hub: one
// JSON object per message, server→client events tagged by type, client
// replies {"type":"pong"} to pings.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// browser dashboards connect cross-origin from the configured hosts
		OriginPatterns: s.cfg.AllowedOrigins,
	})
	if err != nil {
		s.log.Warnw("websocket accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub.ID)
	s.log.Infow("subscriber connected", "id", sub.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// read loop: only pongs are expected from clients
	go func() {
		defer cancel()
		for {
			var msg struct {
				Type string `json:"type"`
			}
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				return
			}
			if msg.Type == model.EventPong {
				s.hub.Pong(sub.ID)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events:
			if !ok {
				// hub dropped us (stalled or pruned)
				return
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}
