package net

import (
	"fmt"

	"github.com/chrisjuchem/botgame/internal/game"
)

// Message types of the match protocol. Every frame on the wire is one
// CBOR-encoded Message.
type MessageType string

const (
	// Client → Server
	TypeJoinQueue MessageType = "join_matchmaking_queue"
	TypeActivate  MessageType = "activate_ability"

	// Server → Client
	TypeMatchStarted MessageType = "match_started"
	TypeEffect       MessageType = "effect"
	TypeNewTurn      MessageType = "new_turn"

	// Both directions
	TypeError MessageType = "protocol_error"
)

// Message is the envelope for every protocol message. Exactly the payload
// named by Type is set.
type Message struct {
	Type MessageType `cbor:"type"`

	JoinQueue    *JoinMatchmakingQueue `cbor:"join_queue,omitempty"`
	MatchStarted *MatchStarted         `cbor:"match_started,omitempty"`
	Effect       *EffectMessage        `cbor:"effect,omitempty"`
	NewTurn      *NewTurn              `cbor:"new_turn,omitempty"`
	Activate     *ActivateAbility      `cbor:"activate,omitempty"`
	Error        *ProtocolError        `cbor:"error,omitempty"`
}

// JoinMatchmakingQueue asks the server to pair this connection with the
// next waiting player.
type JoinMatchmakingQueue struct {
	PlayerName string        `cbor:"player_name"`
	Decklist   game.Decklist `cbor:"decklist"`
}

// PlayerInfo describes one participant of a started match.
type PlayerInfo struct {
	ID       game.PlayerID `cbor:"player_id"`
	Name     string        `cbor:"name"`
	Decklist game.Decklist `cbor:"decklist"`
}

// MatchStarted tells a client which match it is in and who it is. Rows and
// Cols size each player's grid.
type MatchStarted struct {
	MatchID game.MatchID  `cbor:"match_id"`
	Players []PlayerInfo  `cbor:"players"`
	You     game.PlayerID `cbor:"you"`
	Rows    int           `cbor:"rows"`
	Cols    int           `cbor:"cols"`
}

// EffectMessage carries one primitive effect the server already applied.
type EffectMessage struct {
	MatchID game.MatchID        `cbor:"match_id"`
	Effect  game.Effect         `cbor:"effect"`
	Targets []game.GridLocation `cbor:"targets"`
	Source  *game.GridLocation  `cbor:"source,omitempty"`
}

// NewTurn names the player who now holds the turn.
type NewTurn struct {
	MatchID    game.MatchID  `cbor:"match_id"`
	NextPlayer game.PlayerID `cbor:"next_player"`
}

// ActivateAbility asks the server to use an ability of one of the sender's
// units.
type ActivateAbility struct {
	MatchID      game.MatchID        `cbor:"match_id"`
	UnitLocation game.GridLocation   `cbor:"unit_location"`
	AbilityIndex int                 `cbor:"ability_index"`
	Targets      []game.GridLocation `cbor:"targets"`
}

// ProtocolError reports a rejected or unreadable message.
type ProtocolError struct {
	Msg string `cbor:"msg"`
}

func (e *ProtocolError) Error() string { return e.Msg }

// --- Constructors ---

func NewJoinQueue(name string, deck game.Decklist) Message {
	return Message{Type: TypeJoinQueue, JoinQueue: &JoinMatchmakingQueue{PlayerName: name, Decklist: deck}}
}

func NewMatchStarted(m MatchStarted) Message {
	return Message{Type: TypeMatchStarted, MatchStarted: &m}
}

func NewEffect(match game.MatchID, item game.WorkItem) Message {
	return Message{Type: TypeEffect, Effect: &EffectMessage{
		MatchID: match,
		Effect:  item.Effect,
		Targets: item.Targets,
		Source:  item.Source,
	}}
}

func NewTurnMessage(match game.MatchID, next game.PlayerID) Message {
	return Message{Type: TypeNewTurn, NewTurn: &NewTurn{MatchID: match, NextPlayer: next}}
}

func NewActivate(match game.MatchID, at game.GridLocation, index int, targets []game.GridLocation) Message {
	return Message{Type: TypeActivate, Activate: &ActivateAbility{
		MatchID:      match,
		UnitLocation: at,
		AbilityIndex: index,
		Targets:      targets,
	}}
}

func NewError(format string, args ...interface{}) Message {
	return Message{Type: TypeError, Error: &ProtocolError{Msg: fmt.Sprintf(format, args...)}}
}

// WorkItem converts an effect message back into an engine work item.
func (e *EffectMessage) WorkItem() game.WorkItem {
	return game.WorkItem{Effect: e.Effect, Targets: e.Targets, Source: e.Source}
}

// Check reports whether the payload matching Type is present.
func (m Message) Check() error {
	var ok bool
	switch m.Type {
	case TypeJoinQueue:
		ok = m.JoinQueue != nil
	case TypeMatchStarted:
		ok = m.MatchStarted != nil
	case TypeEffect:
		ok = m.Effect != nil
	case TypeNewTurn:
		ok = m.NewTurn != nil
	case TypeActivate:
		ok = m.Activate != nil
	case TypeError:
		ok = m.Error != nil
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
	if !ok {
		return fmt.Errorf("%s message without payload", m.Type)
	}
	return nil
}
