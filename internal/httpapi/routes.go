package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tombolahq/tombola-backend/internal/hub"
	"github.com/tombolahq/tombola-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, defaultRoom string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h))
	r.Get("/rooms/{code}/stats", RoomStats(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, defaultRoom, log))
	return r
}
