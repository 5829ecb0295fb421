package engine

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"
)

var ErrNotAdmin = errors.New("admin rights required")
var ErrBlankName = errors.New("name must not be blank")
var ErrNameTooLong = errors.New("name too long")
var ErrAlreadyJoined = errors.New("player already joined")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrNumberOutOfRange = errors.New("number out of range")
var ErrNumberNotDrawn = errors.New("number not drawn yet")
var ErrNumberNotOnCard = errors.New("number not on card")
var ErrGameFinished = errors.New("game already finished")
var ErrUnsupportedCommand = errors.New("unsupported command")

const MaxNumber = 90
const MaxNameLen = 20

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

type Tier string

const (
	TierAmbo     Tier = "ambo"
	TierTerno    Tier = "terno"
	TierQuaterna Tier = "quaterna"
	TierCinquina Tier = "cinquina"
	TierTombola  Tier = "tombola"
)

type Player struct {
	ID     string
	Name   string
	Card   Card
	Marked map[int]bool
	Prizes map[Tier]bool
}

type State struct {
	ExtractedNumbers []int
	Drawn            map[int]bool
	CurrentNumber    int
	PreviousNumber   int
	Status           Status
	Players          map[string]*Player
	AdminConnected   bool
	Winners          []string
}

func NewState() State {
	return State{
		ExtractedNumbers: []int{},
		Drawn:            map[int]bool{},
		Status:           StatusWaiting,
		Players:          map[string]*Player{},
		Winners:          []string{},
	}
}

type CommandType string

const (
	CmdAdminJoin     CommandType = "AdminJoin"
	CmdPlayerJoin    CommandType = "PlayerJoin"
	CmdExtractNumber CommandType = "ExtractNumber"
	CmdMarkNumber    CommandType = "MarkNumber"
	CmdResetGame     CommandType = "ResetGame"
	CmdLeave         CommandType = "Leave"
)

// Command carries one inbound action. ConnID identifies the caller's
// connection; Admin is stamped by the router from the connection's role,
// never taken from the wire.
type Command struct {
	Type   CommandType
	ConnID string
	Name   string
	Number int
	Admin  bool
}

type EventType string

const (
	EvtAdminJoined      EventType = "AdminJoined"
	EvtPlayerJoined     EventType = "PlayerJoined"
	EvtNumberDrawn      EventType = "NumberDrawn"
	EvtNumbersExhausted EventType = "NumbersExhausted"
	EvtNumberMarked     EventType = "NumberMarked"
	EvtPrizesWon        EventType = "PrizesWon"
	EvtGameFinished     EventType = "GameFinished"
	EvtGameReset        EventType = "GameReset"
	EvtPlayerLeft       EventType = "PlayerLeft"
)

type Event struct {
	Type     EventType
	ConnID   string
	Name     string
	Number   int
	Previous int
	Count    int
	Card     Card
	Tiers    []Tier
}

// Apply validates cmd against s, then mutates. Error paths return before any
// write, so a rejected command leaves the state exactly as it was.
func Apply(s State, cmd Command) ([]Event, State, error) {
	newState := s

	switch cmd.Type {
	case CmdAdminJoin:
		newState.AdminConnected = true
		return []Event{{Type: EvtAdminJoined, ConnID: cmd.ConnID}}, newState, nil

	case CmdPlayerJoin:
		name := strings.TrimSpace(cmd.Name)
		if name == "" {
			return nil, s, ErrBlankName
		}
		if utf8.RuneCountInString(name) > MaxNameLen {
			return nil, s, ErrNameTooLong
		}
		if _, ok := s.Players[cmd.ConnID]; ok {
			return nil, s, ErrAlreadyJoined
		}

		card := GenerateCard()
		newState.Players[cmd.ConnID] = &Player{
			ID:     cmd.ConnID,
			Name:   name,
			Card:   card,
			Marked: map[int]bool{},
			Prizes: map[Tier]bool{},
		}
		return []Event{{Type: EvtPlayerJoined, ConnID: cmd.ConnID, Name: name, Card: card}}, newState, nil

	case CmdExtractNumber:
		if !cmd.Admin {
			return nil, s, ErrNotAdmin
		}
		if s.Status == StatusFinished {
			return nil, s, ErrGameFinished
		}

		n, ok := drawNumber(s.Drawn)
		if !ok {
			// Pool exhausted without the status having flipped; terminal
			// transition, not a fault.
			newState.Status = StatusFinished
			return []Event{{Type: EvtNumbersExhausted}, {Type: EvtGameFinished}}, newState, nil
		}

		newState.PreviousNumber = s.CurrentNumber
		newState.CurrentNumber = n
		newState.ExtractedNumbers = append(newState.ExtractedNumbers, n)
		newState.Drawn[n] = true
		if newState.Status == StatusWaiting {
			newState.Status = StatusPlaying
		}

		events := []Event{{
			Type:     EvtNumberDrawn,
			Number:   n,
			Previous: newState.PreviousNumber,
			Count:    len(newState.ExtractedNumbers),
		}}
		if len(newState.ExtractedNumbers) == MaxNumber {
			newState.Status = StatusFinished
			events = append(events, Event{Type: EvtGameFinished})
		}
		return events, newState, nil

	case CmdMarkNumber:
		player, ok := s.Players[cmd.ConnID]
		if !ok {
			return nil, s, ErrUnknownPlayer
		}
		if cmd.Number < 1 || cmd.Number > MaxNumber {
			return nil, s, ErrNumberOutOfRange
		}
		if !s.Drawn[cmd.Number] {
			return nil, s, ErrNumberNotDrawn
		}
		if !player.Card.Contains(cmd.Number) {
			return nil, s, ErrNumberNotOnCard
		}
		if player.Marked[cmd.Number] {
			// Re-marking is a no-op, not an error.
			return nil, s, nil
		}

		player.Marked[cmd.Number] = true
		events := []Event{{Type: EvtNumberMarked, ConnID: cmd.ConnID, Number: cmd.Number}}

		tiers := evaluateWins(player)
		if len(tiers) > 0 {
			if !slices.Contains(newState.Winners, player.ID) {
				newState.Winners = append(newState.Winners, player.ID)
			}
			events = append(events, Event{
				Type:   EvtPrizesWon,
				ConnID: player.ID,
				Name:   player.Name,
				Tiers:  tiers,
			})
			if slices.Contains(tiers, TierTombola) {
				newState.Status = StatusFinished
				events = append(events, Event{Type: EvtGameFinished})
			}
		}
		return events, newState, nil

	case CmdResetGame:
		if !cmd.Admin {
			return nil, s, ErrNotAdmin
		}
		reset := NewState()
		reset.AdminConnected = s.AdminConnected
		return []Event{{Type: EvtGameReset}}, reset, nil

	case CmdLeave:
		events := []Event{}
		if cmd.Admin {
			newState.AdminConnected = false
		}
		if player, ok := s.Players[cmd.ConnID]; ok {
			delete(newState.Players, cmd.ConnID)
			events = append(events, Event{Type: EvtPlayerLeft, ConnID: cmd.ConnID, Name: player.Name})
		}
		return events, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
