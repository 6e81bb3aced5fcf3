package ai

import (
	"math/rand"
	"sync"

	"cyberholdem/holdem"
)

// Default simulation counts. A few hundred runs keep a decision under a
// few milliseconds while staying stable enough for threshold logic.
const (
	EQUITY_SIMS_POSTFLOP = 300
	EQUITY_SIMS_COACH    = 500
)

// EquityResult holds Monte Carlo outcome frequencies.
type EquityResult struct {
	Win  float64
	Tie  float64
	Lose float64
}

// Equity folds ties in at half weight: (wins + 0.5*ties) / n.
func (r EquityResult) Equity() float64 {
	return r.Win + 0.5*r.Tie
}

// EquityEstimator samples random opponent hands and board run-outs to
// estimate win probability. Safe for concurrent use.
type EquityEstimator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewEquityEstimator(rand *rand.Rand) *EquityEstimator {
	return &EquityEstimator{rand: rand}
}

// Estimate runs nSim simulations of the hand against numOpponents random
// holdings. Opponents are clamped to 1..5.
func (h *EquityEstimator) Estimate(hand, community []holdem.Card, numOpponents, nSim int) EquityResult {
	if len(hand) == 0 || nSim <= 0 {
		return EquityResult{Win: 0.5, Lose: 0.5}
	}
	if numOpponents < 1 {
		numOpponents = 1
	}
	if numOpponents > 5 {
		numOpponents = 5
	}

	known := make(map[holdem.Card]bool, len(hand)+len(community))
	for _, c := range hand {
		known[c] = true
	}
	for _, c := range community {
		known[c] = true
	}
	remaining := make([]holdem.Card, 0, 52)
	for _, c := range holdem.FullDeck() {
		if !known[c] {
			remaining = append(remaining, c)
		}
	}

	boardNeeded := 5 - len(community)
	sampleSize := numOpponents*2 + boardNeeded
	if sampleSize > len(remaining) {
		return EquityResult{Win: 0.5, Lose: 0.5}
	}

	wins, ties := 0, 0
	sample := make([]holdem.Card, len(remaining))

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := 0; s < nSim; s++ {
		copy(sample, remaining)
		// Partial Fisher-Yates: only the first sampleSize cards are needed.
		for i := 0; i < sampleSize; i++ {
			j := i + h.rand.Intn(len(sample)-i)
			sample[i], sample[j] = sample[j], sample[i]
		}

		board := append(append([]holdem.Card(nil), community...), sample[numOpponents*2:sampleSize]...)
		myRank := holdem.EvaluateHandRank(holdem.ConcatCards(hand, board))

		bestOpp := holdem.HandRank{-1}
		for i := 0; i < numOpponents; i++ {
			oppHand := sample[i*2 : i*2+2]
			oppRank := holdem.EvaluateHandRank(holdem.ConcatCards(oppHand, board))
			if holdem.CompareHandRanks(oppRank, bestOpp) > 0 {
				bestOpp = oppRank
			}
		}

		switch cmp := holdem.CompareHandRanks(myRank, bestOpp); {
		case cmp > 0:
			wins++
		case cmp == 0:
			ties++
		}
	}

	n := float64(nSim)
	return EquityResult{
		Win:  float64(wins) / n,
		Tie:  float64(ties) / n,
		Lose: float64(nSim-wins-ties) / n,
	}
}
