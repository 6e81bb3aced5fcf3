package ai

import (
	"context"

	"cyberholdem/holdem"
)

// Decision is what a strategy wants to do with the current turn. Amount is
// the total street bet for raises and ignored otherwise. Thought is shown in
// the thinking log, Chat is table talk.
type Decision struct {
	Action  holdem.ActionKind `json:"action"`
	Amount  int               `json:"amount"`
	Thought string            `json:"thought"`
	Chat    string            `json:"chat_message"`
}

// Strategy decides an action for one seat given its masked view of the hand.
type Strategy interface {
	Decide(ctx context.Context, view *holdem.GameView, seatID int) (Decision, error)
}
