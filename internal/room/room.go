package room

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tombolahq/tombola-backend/internal/engine"
	"github.com/tombolahq/tombola-backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// Attach registers a connection and immediately sends it the current
// game-state snapshot. This happens before any join; the connection has no
// role yet.
type Attach struct {
	ConnID string
	Outbox chan types.ServerMessage
}

func (Attach) isRoomMsg() {}

// Detach removes a connection: the player leaves, admin presence is cleared
// if the admin's connection dropped. Serialized through the inbox like every
// other event.
type Detach struct{ ConnID string }

func (Detach) isRoomMsg() {}

type FromClient struct {
	ConnID string
	Msg    types.ClientMessage
}

func (FromClient) isRoomMsg() {}

type GetStats struct {
	Reply chan Stats
}

func (GetStats) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// Stats is the read-only status surface: a derived snapshot, never a live
// pointer into room state.
type Stats struct {
	Version      int    `json:"version"`
	Players      int    `json:"players"`
	NumbersDrawn int    `json:"numbersDrawn"`
	GameStatus   string `json:"gameStatus"`
	Winners      int    `json:"winners"`
	Connections  int    `json:"connections"`
}

type conn struct {
	outbox chan types.ServerMessage
	admin  bool
}

// Room owns one session aggregate. A single goroutine drains the inbox, so
// every event is handled to completion before the next; components never see
// a partially applied mutation.
type Room struct {
	inbox   chan Msg
	state   engine.State
	version int
	conns   map[string]*conn
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRoom(parent context.Context, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		inbox:  make(chan Msg, 64),
		state:  engine.NewState(),
		conns:  make(map[string]*conn),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Attach:
				r.conns[msg.ConnID] = &conn{outbox: msg.Outbox}
				r.send(msg.ConnID, types.ServerMessage{Type: types.MsgGameState, State: r.snapshot()})

			case Detach:
				c, ok := r.conns[msg.ConnID]
				if !ok {
					break
				}
				cmd := engine.Command{Type: engine.CmdLeave, ConnID: msg.ConnID, Admin: c.admin}
				events, newState, err := engine.Apply(r.state, cmd)
				close(c.outbox)
				delete(r.conns, msg.ConnID)
				if err != nil {
					break
				}
				wasAdmin := c.admin
				r.state = newState
				if len(events) > 0 || wasAdmin {
					r.version++
					r.broadcast(types.ServerMessage{Type: types.MsgGameState, State: r.snapshot()})
				}

			case FromClient:
				r.handleClient(msg)

			case GetStats:
				msg.Reply <- Stats{
					Version:      r.version,
					Players:      len(r.state.Players),
					NumbersDrawn: len(r.state.ExtractedNumbers),
					GameStatus:   string(r.state.Status),
					Winners:      len(r.state.Winners),
					Connections:  len(r.conns),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleClient(msg FromClient) {
	c, ok := r.conns[msg.ConnID]
	if !ok {
		return
	}

	cmd, ok := toCommand(msg.Msg, msg.ConnID, c.admin)
	if !ok {
		r.sendError(msg.ConnID, engine.ErrUnsupportedCommand)
		return
	}

	events, newState, err := engine.Apply(r.state, cmd)
	if err != nil {
		r.log.Debug("command rejected",
			zap.String("conn", msg.ConnID),
			zap.String("type", msg.Msg.Type),
			zap.Error(err))
		r.sendError(msg.ConnID, err)
		return
	}
	r.state = newState

	if len(events) == 0 {
		// Idempotent no-op (e.g. re-marking a number); nothing to announce.
		return
	}
	r.version++

	for _, ev := range events {
		switch ev.Type {
		case engine.EvtAdminJoined:
			c.admin = true

		case engine.EvtPlayerJoined:
			card := ev.Card
			r.send(ev.ConnID, types.ServerMessage{Type: types.MsgYourCard, Card: &card})
			r.log.Info("player joined", zap.String("conn", ev.ConnID), zap.String("name", ev.Name))

		case engine.EvtNumberDrawn:
			r.broadcast(types.ServerMessage{
				Type:     types.MsgNumberExtracted,
				Number:   ev.Number,
				Previous: ev.Previous,
				Count:    ev.Count,
			})

		case engine.EvtPrizesWon:
			tiers := tierNames(ev.Tiers)
			r.send(ev.ConnID, types.ServerMessage{Type: types.MsgYouWon, Tiers: tiers})
			r.broadcast(types.ServerMessage{
				Type:       types.MsgPlayerWon,
				PlayerID:   ev.ConnID,
				PlayerName: ev.Name,
				Tiers:      tiers,
				Timestamp:  time.Now().UnixMilli(),
			})
			r.log.Info("prizes won", zap.String("player", ev.Name), zap.Strings("tiers", tiers))

		case engine.EvtGameReset:
			r.broadcast(types.ServerMessage{Type: types.MsgGameReset})
			r.log.Info("game reset")

		case engine.EvtGameFinished:
			r.log.Info("game finished", zap.Int("drawn", len(r.state.ExtractedNumbers)))
		}
	}

	r.broadcast(types.ServerMessage{Type: types.MsgGameState, State: r.snapshot()})
}

func toCommand(m types.ClientMessage, connID string, admin bool) (engine.Command, bool) {
	switch m.Type {
	case types.MsgAdminJoin:
		return engine.Command{Type: engine.CmdAdminJoin, ConnID: connID}, true
	case types.MsgPlayerJoin:
		return engine.Command{Type: engine.CmdPlayerJoin, ConnID: connID, Name: m.Name}, true
	case types.MsgExtractNumber:
		return engine.Command{Type: engine.CmdExtractNumber, ConnID: connID, Admin: admin}, true
	case types.MsgMarkNumber:
		return engine.Command{Type: engine.CmdMarkNumber, ConnID: connID, Number: m.Number}, true
	case types.MsgResetGame:
		return engine.Command{Type: engine.CmdResetGame, ConnID: connID, Admin: admin}, true
	default:
		return engine.Command{}, false
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotAdmin):
		return "not_admin"
	case errors.Is(err, engine.ErrBlankName):
		return "blank_name"
	case errors.Is(err, engine.ErrNameTooLong):
		return "name_too_long"
	case errors.Is(err, engine.ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, engine.ErrUnknownPlayer):
		return "not_joined"
	case errors.Is(err, engine.ErrNumberOutOfRange):
		return "number_out_of_range"
	case errors.Is(err, engine.ErrNumberNotDrawn):
		return "number_not_drawn"
	case errors.Is(err, engine.ErrNumberNotOnCard):
		return "number_not_on_card"
	case errors.Is(err, engine.ErrGameFinished):
		return "game_finished"
	default:
		return "unknown_type"
	}
}

func (r *Room) sendError(connID string, err error) {
	r.send(connID, types.ServerMessage{
		Type:  types.MsgError,
		Code:  errorCode(err),
		Error: err.Error(),
	})
}

func (r *Room) snapshot() *types.GameState {
	players := make(map[string]types.PlayerState, len(r.state.Players))
	for id, p := range r.state.Players {
		marked := make([]int, 0, len(p.Marked))
		for n := range p.Marked {
			marked = append(marked, n)
		}
		sort.Ints(marked)

		prizes := make(map[string]bool, len(p.Prizes))
		for tier, won := range p.Prizes {
			prizes[string(tier)] = won
		}
		players[id] = types.PlayerState{Name: p.Name, MarkedNumbers: marked, Prizes: prizes}
	}

	return &types.GameState{
		ExtractedNumbers: append([]int{}, r.state.ExtractedNumbers...),
		CurrentNumber:    r.state.CurrentNumber,
		PreviousNumber:   r.state.PreviousNumber,
		GameStatus:       string(r.state.Status),
		Players:          players,
		AdminConnected:   r.state.AdminConnected,
		Winners:          append([]string{}, r.state.Winners...),
	}
}

func tierNames(tiers []engine.Tier) []string {
	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = string(t)
	}
	return names
}

func (r *Room) send(connID string, msg types.ServerMessage) {
	c, ok := r.conns[connID]
	if !ok {
		return
	}
	select {
	case c.outbox <- msg:
	default:
		// Slow or stuck connection; drop it rather than block the loop.
		close(c.outbox)
		delete(r.conns, connID)
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for id, c := range r.conns {
		select {
		case c.outbox <- msg:
		default:
			close(c.outbox)
			delete(r.conns, id)
		}
	}
}

func (r *Room) shutdown() {
	for id, c := range r.conns {
		close(c.outbox)
		delete(r.conns, id)
	}
	r.cancel()
}
