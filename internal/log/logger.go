package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Discard ---

type discard struct{}

func (discard) Log(GameEvent)       {}
func (discard) Events() []GameEvent { return nil }

// Discard drops every event.
var Discard EventLogger = discard{}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	player := e.Player
	// Pad player to 8 chars for alignment
	for len(player) < 8 {
		player += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, player, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(match string, players ...string) GameEvent {
	return GameEvent{
		Type:    EventMatchStart,
		Details: fmt.Sprintf("Match %s started: %s", match, strings.Join(players, " vs ")),
	}
}

func NewTurnEvent(turn int, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, player),
	}
}

func NewActivateEvent(turn int, player, unit string, ability int, cost int, targets int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventActivate,
		Card:    unit,
		Details: fmt.Sprintf("%s activates %s ability %d for %d energy (%d targets)", player, unit, ability, cost, targets),
	}
}

func NewRejectedEvent(turn int, player string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventRejected,
		Details: fmt.Sprintf("%s activation rejected: %s", player, reason),
	}
}

func NewAttackEvent(turn int, player, unit string, base, dealt int, kind string) GameEvent {
	details := fmt.Sprintf("%s takes %d %s damage", unit, dealt, kind)
	if base != dealt {
		details += fmt.Sprintf(" (%d before resistances)", base)
	}
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventAttack,
		Card:    unit,
		Details: details,
	}
}

func NewSummonEvent(turn int, player, card, loc string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventSummon,
		Card:    card,
		Details: fmt.Sprintf("%s summons %s to %s", player, card, loc),
	}
}

func NewSummonDroppedEvent(turn int, player, card, loc string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventSummonDropped,
		Card:    card,
		Details: fmt.Sprintf("%s cannot be placed at %s (cell unavailable)", card, loc),
	}
}

func NewGrantAbilityEvent(turn int, player, unit, ability string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventGrantAbility,
		Card:    unit,
		Details: fmt.Sprintf("%s gains %q", unit, ability),
	}
}

func NewHPChangeEvent(turn int, player, unit string, oldHP, newHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventHPChange,
		Card:    unit,
		Details: fmt.Sprintf("%s HP: %d → %d", unit, oldHP, newHP),
	}
}

func NewEnergyChangeEvent(turn int, player, unit string, oldEnergy, newEnergy int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEnergyChange,
		Card:    unit,
		Details: fmt.Sprintf("%s energy: %d → %d", unit, oldEnergy, newEnergy),
	}
}

func NewTriggerEvent(turn int, player, unit, trigger, cause string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventTrigger,
		Card:    unit,
		Details: fmt.Sprintf("%s %s triggers (%s)", unit, trigger, cause),
	}
}

func NewDestroyEvent(turn int, player, unit, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDestroy,
		Card:    unit,
		Details: fmt.Sprintf("%s is destroyed (%s)", unit, reason),
	}
}

func NewBatchAbortedEvent(turn int, steps int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventBatchAborted,
		Details: fmt.Sprintf("effect batch stopped after %d steps", steps),
	}
}

func NewMatchEndEvent(turn int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventMatchEnd,
		Details: fmt.Sprintf("Match ended (%s)", reason),
	}
}
