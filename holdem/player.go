package holdem

// Player is one seat at the table. Chips persist across hands,
// everything else is reset by beginHand.
type Player struct {
	ID        int
	Name      string
	Chips     int
	HoleCards []Card

	IsActive  bool // still contesting the current hand
	IsAllIn   bool
	HasActed  bool // acted since the last bet-size change this street
	StreetBet int  // chips committed this street
	HandBet   int  // chips committed this hand, across streets
}

func (h *Player) beginHand() {
	h.HoleCards = nil
	h.IsActive = h.Chips > 0
	h.IsAllIn = false
	h.HasActed = false
	h.StreetBet = 0
	h.HandBet = 0
}

// canAct reports whether the seat still has a decision to make.
func (h *Player) canAct() bool {
	return h.IsActive && !h.IsAllIn && h.Chips > 0
}
