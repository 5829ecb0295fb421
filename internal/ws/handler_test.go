package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tombolahq/tombola-backend/internal/hub"
	"github.com/tombolahq/tombola-backend/internal/room"
)

func TestHandler_SocketClosesWhenRoomForgetsConn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(ctx, zap.NewNop())
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.EnsureRoom{Code: "WSTEST", Reply: reply}
	rm := <-reply

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", Handler(h, "", zap.NewNop()))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dialCtx, dialCancel := context.WithTimeout(ctx, 5*time.Second)
	defer dialCancel()
	conn, _, err := websocket.Dial(dialCtx, srv.URL+"/ws?code=WSTEST", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, data, err := conn.Read(readCtx)
	readCancel()
	require.NoError(t, err)
	require.Contains(t, string(data), "game-state")

	// Once the room drops every connection, the server side must close the
	// socket rather than leave the client attached to a dead outbox.
	rm.Inbox() <- room.Shutdown{}

	readCtx, readCancel = context.WithTimeout(ctx, 5*time.Second)
	defer readCancel()
	_, _, err = conn.Read(readCtx)
	require.Error(t, err)
}

func TestHandler_MissingCodeRejected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(ctx, zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", Handler(h, "", zap.NewNop()))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
