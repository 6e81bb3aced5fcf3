package holdem

// PlayerView is the observer-facing snapshot of one seat. Hand is nil
// whenever the observer is not allowed to see it.
type PlayerView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Chips     int    `json:"chips"`
	Hand      []Card `json:"hand"`
	IsActive  bool   `json:"is_active"`
	IsAllIn   bool   `json:"is_all_in"`
	StreetBet int    `json:"current_bet"`
	IsDealer  bool   `json:"is_dealer"`
	IsTurn    bool   `json:"is_turn"`
}

// GameView is a masked snapshot of the hand for one observer.
type GameView struct {
	State              Street       `json:"state"`
	Pot                int          `json:"pot"`
	CommunityCards     []Card       `json:"community_cards"`
	CurrentPlayerIdx   int          `json:"current_player_idx"`
	DealerIdx          int          `json:"dealer_idx"`
	CurrentBet         int          `json:"current_bet"`
	MinRaise           int          `json:"min_raise"`
	RaiseCount         int          `json:"raise_count"`
	MaxRaisesPerStreet int          `json:"max_raises_per_street"`
	CanRaise           bool         `json:"can_raise"`
	Players            []PlayerView `json:"players"`
	Winners            []int        `json:"winners"`
	WinningHand        string       `json:"winning_hand"`

	Locale string `json:"-"`
}

// View builds the snapshot for the given observer seat. Pass a negative
// observer for a spectator view. Hole cards are shown only to their owner,
// except at a contested showdown where the seats still in reveal.
func (h *Engine) View(observerID int) *GameView {
	showdown := h.WentToShowdown()

	players := make([]PlayerView, len(h.players))
	for i, p := range h.players {
		pv := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Chips:     p.Chips,
			IsActive:  p.IsActive,
			IsAllIn:   p.IsAllIn,
			StreetBet: p.StreetBet,
			IsDealer:  i == h.dealerIdx,
			IsTurn:    i == h.currentIdx && !h.HandFinished(),
		}
		if i == observerID || (showdown && p.IsActive) {
			pv.Hand = append([]Card(nil), p.HoleCards...)
		}
		players[i] = pv
	}

	return &GameView{
		State:              h.street,
		Pot:                h.pot,
		CommunityCards:     append([]Card(nil), h.communityCards...),
		CurrentPlayerIdx:   h.CurrentSeatID(),
		DealerIdx:          h.dealerIdx,
		CurrentBet:         h.currentBet,
		MinRaise:           h.minRaise,
		RaiseCount:         h.raiseCount,
		MaxRaisesPerStreet: h.config.MaxRaisesPerStreet,
		CanRaise:           h.raiseCount < h.config.MaxRaisesPerStreet,
		Players:            players,
		Winners:            append([]int(nil), h.winners...),
		WinningHand:        h.winDescription,
	}
}

// Me returns the observer's own seat view, or nil.
func (v *GameView) Me(seatID int) *PlayerView {
	if seatID < 0 || seatID >= len(v.Players) {
		return nil
	}
	return &v.Players[seatID]
}

// ToCall is how much the seat must add to match the table bet.
func (v *GameView) ToCall(seatID int) int {
	me := v.Me(seatID)
	if me == nil {
		return 0
	}
	toCall := v.CurrentBet - me.StreetBet
	if toCall < 0 {
		return 0
	}
	return toCall
}

// ActiveOpponents counts seats still contesting against the given one.
func (v *GameView) ActiveOpponents(seatID int) int {
	cnt := 0
	for _, p := range v.Players {
		if p.ID != seatID && p.IsActive {
			cnt++
		}
	}
	return cnt
}
