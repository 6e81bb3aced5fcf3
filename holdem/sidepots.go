package holdem

import "slices"

// Pot is one contribution tier. Eligible lists seat IDs that can win it.
type Pot struct {
	Amount   int
	Eligible []int
}

// sidePots splits all hand contributions into tiers by the all-in levels of
// the seats still contesting the hand. Folded chips land in the lowest tiers
// they fit; anything a folded seat paid above the highest contested level
// goes into the last pot.
func sidePots(players []*Player) []Pot {
	caps := make([]int, 0, len(players))
	for _, p := range players {
		if p.IsActive && p.HandBet > 0 && !slices.Contains(caps, p.HandBet) {
			caps = append(caps, p.HandBet)
		}
	}
	if len(caps) == 0 {
		return nil
	}
	slices.Sort(caps)

	pots := make([]Pot, 0, len(caps))
	prev := 0
	for _, level := range caps {
		pot := Pot{}
		for _, p := range players {
			contrib := min(p.HandBet, level) - min(p.HandBet, prev)
			pot.Amount += contrib
			if p.IsActive && p.HandBet >= level {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		pots = append(pots, pot)
		prev = level
	}

	// Folded over-contributions above the top contested level.
	leftover := 0
	for _, p := range players {
		if p.HandBet > prev {
			leftover += p.HandBet - prev
		}
	}
	pots[len(pots)-1].Amount += leftover

	return pots
}
