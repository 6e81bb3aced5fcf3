package ai

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"cyberholdem/common/random"
	"cyberholdem/holdem"
)

var gtoChat = map[holdem.ActionKind][]string{
	holdem.ACTION_FOLD: {
		"Not my spot.", "I fold.", "Bad equity.", "Range disadvantage.",
		"Folding this one.", "Not profitable here.",
	},
	holdem.ACTION_CHECK: {
		"Checking.", "I check.", "Pot control.", "Taking a free card.",
		"Check.", "Checking my option.",
	},
	holdem.ACTION_CALL: {
		"Call.", "I call.", "I've got the odds.", "Calling.",
		"Price is right.", "Pot odds check out.",
	},
	holdem.ACTION_RAISE: {
		"Raise.", "I raise.", "I'm ahead here.", "Value bet.",
		"Geometric sizing.", "Building the pot.", "Let's play.",
	},
}

// GTOStrategy approximates solver play. Preflop it mixes decisions from
// position-based range tables; postflop it combines Monte Carlo equity with
// board texture for sizing and balanced bluff frequencies.
type GTOStrategy struct {
	equity *EquityEstimator
	log    zerolog.Logger

	mu   sync.Mutex // guards rand; one instance serves every bot seat
	rand *rand.Rand
}

func NewGTOStrategy(rand *rand.Rand, equity *EquityEstimator, log zerolog.Logger) *GTOStrategy {
	return &GTOStrategy{
		rand:   rand,
		equity: equity,
		log:    log.With().Str("strategy", "gto").Logger(),
	}
}

func (h *GTOStrategy) chat(action holdem.ActionKind) string {
	return random.Pick(h.rand, gtoChat[action])
}

func (h *GTOStrategy) Decide(ctx context.Context, view *holdem.GameView, seatID int) (Decision, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	me := view.Me(seatID)
	if me == nil {
		h.log.Warn().Int("seat", seatID).Msg("seat not found in view")
		return Decision{Action: holdem.ACTION_FOLD, Thought: "seat not found", Chat: "Fold."}, nil
	}
	if len(me.Hand) < 2 {
		return Decision{Action: holdem.ACTION_FOLD, Thought: "no hand", Chat: "Fold."}, nil
	}

	toCall := view.ToCall(seatID)
	position := Position(seatID, view.DealerIdx, len(view.Players))

	if view.State == holdem.STREET_PREFLOP {
		return h.decidePreflop(me, view, position, toCall), nil
	}
	return h.decidePostflop(me, view, toCall), nil
}

func (h *GTOStrategy) decidePreflop(me *holdem.PlayerView, view *holdem.GameView, position string, toCall int) Decision {
	combo := HandCombo(me.Hand[0], me.Hand[1])
	openF := OpenFreq(combo, position)
	callF := CallFreq(combo, position)
	canCheck := toCall == 0
	minRaise := view.MinRaise

	// BB already posted: squeeze the top of the range, otherwise check.
	if position == "BB" && canCheck {
		if openF > 0.7 && h.rand.Float64() < 0.4 {
			amount := min(minRaise*3, me.Chips)
			if amount > 0 {
				return Decision{
					Action: holdem.ACTION_RAISE, Amount: amount,
					Thought: fmt.Sprintf("BB squeeze: %s (%.0f%% freq)", combo, openF*100),
					Chat:    h.chat(holdem.ACTION_RAISE),
				}
			}
		}
		return Decision{
			Action:  holdem.ACTION_CHECK,
			Thought: fmt.Sprintf("BB check: %s", combo),
			Chat:    h.chat(holdem.ACTION_CHECK),
		}
	}

	if canCheck {
		action, err := random.Sample(h.rand, map[holdem.ActionKind]float64{
			holdem.ACTION_RAISE: openF,
			holdem.ACTION_CHECK: 1 - openF,
		})
		if err == nil && action == holdem.ACTION_RAISE && openF > 0 {
			// Standard 2.5x open.
			amount := min(minRaise*2+minRaise/2, me.Chips)
			amount = max(amount, minRaise)
			return Decision{
				Action: holdem.ACTION_RAISE, Amount: amount,
				Thought: fmt.Sprintf("Open raise: %s at %s (%.0f%%)", combo, position, openF*100),
				Chat:    h.chat(holdem.ACTION_RAISE),
			}
		}
		return Decision{
			Action:  holdem.ACTION_CHECK,
			Thought: fmt.Sprintf("Check behind: %s at %s", combo, position),
			Chat:    h.chat(holdem.ACTION_CHECK),
		}
	}

	if toCall >= me.Chips {
		if callF > 0 && h.rand.Float64() < callF*0.5 {
			return Decision{
				Action:  holdem.ACTION_CALL,
				Thought: fmt.Sprintf("All-in call: %s", combo),
				Chat:    h.chat(holdem.ACTION_CALL),
			}
		}
		return Decision{
			Action:  holdem.ACTION_FOLD,
			Thought: fmt.Sprintf("Fold to all-in: %s", combo),
			Chat:    h.chat(holdem.ACTION_FOLD),
		}
	}

	// Only the widest openers 3-bet.
	threeBetF := max(0.0, openF-0.5)
	if threeBetF > 0 && h.rand.Float64() < threeBetF*0.4 {
		amount := min(toCall*3, me.Chips)
		amount = max(amount, minRaise)
		return Decision{
			Action: holdem.ACTION_RAISE, Amount: amount,
			Thought: fmt.Sprintf("3-bet: %s at %s (3bet freq %.0f%%)", combo, position, threeBetF*100),
			Chat:    h.chat(holdem.ACTION_RAISE),
		}
	}

	if callF > 0 && h.rand.Float64() < callF {
		return Decision{
			Action:  holdem.ACTION_CALL,
			Thought: fmt.Sprintf("Call raise: %s at %s (%.0f%%)", combo, position, callF*100),
			Chat:    h.chat(holdem.ACTION_CALL),
		}
	}

	return Decision{
		Action:  holdem.ACTION_FOLD,
		Thought: fmt.Sprintf("Fold pre-flop: %s at %s (call_f=%.0f%%)", combo, position, callF*100),
		Chat:    h.chat(holdem.ACTION_FOLD),
	}
}

func (h *GTOStrategy) decidePostflop(me *holdem.PlayerView, view *holdem.GameView, toCall int) Decision {
	seatID := me.ID
	numOpp := max(1, view.ActiveOpponents(seatID))
	equity := h.equity.Estimate(me.Hand, view.CommunityCards, numOpp, EQUITY_SIMS_POSTFLOP).Equity()
	texture := AnalyzeBoard(view.CommunityCards)
	pot := view.Pot
	minRaise := view.MinRaise
	canCheck := toCall == 0

	potOdds := 0.0
	if toCall > 0 {
		potOdds = float64(toCall) / float64(pot+toCall)
	}

	// Dry boards take a small sizing, wet boards bet bigger with a higher
	// value threshold.
	betFraction, valueThreshold := 0.33, 0.65
	if texture.Wetness >= 0.5 {
		betFraction, valueThreshold = 0.66, 0.70
	}

	betSize := max(int(float64(pot)*betFraction), minRaise)
	betSize = min(betSize, me.Chips)

	// Balanced bluffing: bet / (pot + 2*bet).
	bluffFreq := float64(betSize) / float64(pot+2*betSize)

	thoughtBase := fmt.Sprintf("equity=%.0f%% pot_odds=%.0f%% wet=%.2f bluff_f=%.0f%%",
		equity*100, potOdds*100, texture.Wetness, bluffFreq*100)

	if canCheck {
		if equity >= valueThreshold {
			return Decision{
				Action: holdem.ACTION_RAISE, Amount: betSize,
				Thought: "Value bet: " + thoughtBase,
				Chat:    h.chat(holdem.ACTION_RAISE),
			}
		}
		if equity < 0.30 && h.rand.Float64() < bluffFreq {
			return Decision{
				Action: holdem.ACTION_RAISE, Amount: betSize,
				Thought: "Bluff: " + thoughtBase,
				Chat:    h.chat(holdem.ACTION_RAISE),
			}
		}
		return Decision{
			Action:  holdem.ACTION_CHECK,
			Thought: "Check: " + thoughtBase,
			Chat:    h.chat(holdem.ACTION_CHECK),
		}
	}

	if equity >= valueThreshold && equity > potOdds+0.10 {
		reRaise := min(int(float64(pot)*betFraction*1.5), me.Chips)
		reRaise = max(reRaise, minRaise)
		if reRaise <= toCall || me.Chips <= toCall {
			return Decision{
				Action:  holdem.ACTION_CALL,
				Thought: "Call (value): " + thoughtBase,
				Chat:    h.chat(holdem.ACTION_CALL),
			}
		}
		return Decision{
			Action: holdem.ACTION_RAISE, Amount: reRaise,
			Thought: "Value raise: " + thoughtBase,
			Chat:    h.chat(holdem.ACTION_RAISE),
		}
	}

	if equity > potOdds+0.08 {
		return Decision{
			Action:  holdem.ACTION_CALL,
			Thought: "Call (odds): " + thoughtBase,
			Chat:    h.chat(holdem.ACTION_CALL),
		}
	}

	if equity > potOdds && h.rand.Float64() < 0.35 {
		return Decision{
			Action:  holdem.ACTION_CALL,
			Thought: "Marginal call: " + thoughtBase,
			Chat:    h.chat(holdem.ACTION_CALL),
		}
	}

	if equity < 0.20 && h.rand.Float64() < bluffFreq*0.5 {
		bluffRaise := min(int(float64(pot)*0.66), me.Chips)
		bluffRaise = max(bluffRaise, minRaise)
		if bluffRaise > toCall && me.Chips > toCall {
			return Decision{
				Action: holdem.ACTION_RAISE, Amount: bluffRaise,
				Thought: "Semi-bluff raise: " + thoughtBase,
				Chat:    h.chat(holdem.ACTION_RAISE),
			}
		}
	}

	return Decision{
		Action:  holdem.ACTION_FOLD,
		Thought: "Fold: " + thoughtBase,
		Chat:    h.chat(holdem.ACTION_FOLD),
	}
}
