package hub

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/tombolahq/tombola-backend/internal/room"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{Code: "ABC123", Reply: reply}
	rm1 := <-reply

	h.Inbox() <- GetRoom{Code: "ABC123", Reply: reply}
	rm2 := <-reply

	if rm1 == nil || rm2 == nil || rm1 != rm2 {
		t.Fatalf("expected same room pointer")
	}
}

func TestHub_GetUnknownReturnsNil(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- GetRoom{Code: "NOPE", Reply: reply}
	if rm := <-reply; rm != nil {
		t.Fatalf("expected nil for unknown code")
	}
}

func TestHub_EnsureCreatesOnce(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- EnsureRoom{Code: "XYZ789", Reply: reply}
	rm1 := <-reply

	h.Inbox() <- EnsureRoom{Code: "XYZ789", Reply: reply}
	rm2 := <-reply

	if rm1 != rm2 {
		t.Fatalf("ensure must reuse the existing room")
	}
}

func TestHub_RemoveForgetsRoom(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- EnsureRoom{Code: "GONE42", Reply: reply}
	<-reply

	h.Inbox() <- RemoveRoom{Code: "GONE42"}
	h.Inbox() <- GetRoom{Code: "GONE42", Reply: reply}
	if rm := <-reply; rm != nil {
		t.Fatalf("removed room still resolvable")
	}
}
