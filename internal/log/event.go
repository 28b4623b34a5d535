package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventNewTurn
	EventActivate
	EventRejected
	EventAttack
	EventSummon
	EventSummonDropped
	EventGrantAbility
	EventHPChange
	EventEnergyChange
	EventTrigger
	EventDestroy
	EventBatchAborted
	EventMatchEnd
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventNewTurn:
		return "NewTurn"
	case EventActivate:
		return "Activate"
	case EventRejected:
		return "Rejected"
	case EventAttack:
		return "Attack"
	case EventSummon:
		return "Summon"
	case EventSummonDropped:
		return "SummonDropped"
	case EventGrantAbility:
		return "GrantAbility"
	case EventHPChange:
		return "HPChange"
	case EventEnergyChange:
		return "EnergyChange"
	case EventTrigger:
		return "Trigger"
	case EventDestroy:
		return "Destroy"
	case EventBatchAborted:
		return "BatchAborted"
	case EventMatchEnd:
		return "MatchEnd"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based, 0 before the first turn)
	Player  string    // owning or acting player, short form
	Type    EventType // event type
	Card    string    // unit or card name (if applicable)
	Details string    // human-readable detail string
}
