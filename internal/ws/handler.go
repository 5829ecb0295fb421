package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tombolahq/tombola-backend/internal/hub"
	"github.com/tombolahq/tombola-backend/internal/room"
	"github.com/tombolahq/tombola-backend/internal/types"
)

// Handler attaches a websocket connection to a room. The socket carries no
// role at attach time; admin-join and player-join are ordinary messages routed
// through the room's inbox.
func Handler(h *hub.Hub, defaultRoom string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			code = defaultRoom
		}
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := make(chan types.ServerMessage, 16)

		rm.Inbox() <- room.Attach{ConnID: connID, Outbox: out}
		defer func() { rm.Inbox() <- room.Detach{ConnID: connID} }()

		log.Debug("connection attached", zap.String("conn", connID), zap.String("room", code))

		// Writer goroutine: drains the room's outbox until the room closes it
		// (detach, slow-client drop or shutdown) or this handler returns.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// The room has forgotten this connection; close the socket so
			// the reader loop below unblocks instead of lingering with
			// messages nobody routes.
			writeCancel()
			_ = conn.Close(websocket.StatusGoingAway, "connection dropped")
		}()

		// Reader loop. No read deadline: players may idle between draws.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","code":"bad_json","error":"malformed message"}`))
				continue
			}

			rm.Inbox() <- room.FromClient{ConnID: connID, Msg: cm}
		}
	}
}
