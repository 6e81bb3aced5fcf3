package holdem

import "fmt"

type Street string

const (
	STREET_PREFLOP  = Street("PREFLOP")
	STREET_FLOP     = Street("FLOP")
	STREET_TURN     = Street("TURN")
	STREET_RIVER    = Street("RIVER")
	STREET_SHOWDOWN = Street("SHOWDOWN")
	STREET_FINISHED = Street("FINISHED")
)

type ActionKind string

const (
	ACTION_FOLD  = ActionKind("fold")
	ACTION_CHECK = ActionKind("check")
	ACTION_CALL  = ActionKind("call")
	ACTION_RAISE = ActionKind("raise")
	ACTION_ALLIN = ActionKind("allin")
)

// Action as submitted by a seat. Amount is the TOTAL street bet the seat
// wants to reach, only meaningful for raises.
type Action struct {
	Kind   ActionKind
	Amount int
}

func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ACTION_FOLD, ACTION_CHECK, ACTION_CALL, ACTION_RAISE, ACTION_ALLIN:
		return ActionKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}
