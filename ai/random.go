package ai

import (
	"context"
	"math/rand"

	"cyberholdem/holdem"
)

// RandomStrategy picks a uniformly random legal action. Useful as a chaos
// opponent in simulations and tests.
type RandomStrategy struct {
	rand *rand.Rand
}

func NewRandomStrategy(rand *rand.Rand) *RandomStrategy {
	h := &RandomStrategy{
		rand: rand,
	}
	return h
}

func (h *RandomStrategy) Decide(ctx context.Context, view *holdem.GameView, seatID int) (Decision, error) {
	me := view.Me(seatID)
	if me == nil {
		return Decision{Action: holdem.ACTION_FOLD}, nil
	}
	toCall := view.ToCall(seatID)

	actions := []holdem.ActionKind{holdem.ACTION_FOLD}
	if toCall == 0 {
		actions = append(actions, holdem.ACTION_CHECK)
	} else {
		actions = append(actions, holdem.ACTION_CALL)
	}
	minTotal := view.CurrentBet + view.MinRaise
	if view.CanRaise && me.Chips+me.StreetBet >= minTotal {
		actions = append(actions, holdem.ACTION_RAISE)
	}

	action := actions[h.rand.Intn(len(actions))]
	amount := 0
	if action == holdem.ACTION_RAISE {
		maxTotal := me.Chips + me.StreetBet
		amount = minTotal + h.rand.Intn(maxTotal-minTotal+1)
	}
	return Decision{Action: action, Amount: amount, Thought: "random"}, nil
}
