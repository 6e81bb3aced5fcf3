package holdem

import (
	"math/rand"
	"slices"
)

type Config struct {
	RandomSeed         int64
	SmallBlind         int
	BigBlind           int
	MaxRaisesPerStreet int
}

// Engine runs a single table through one hand at a time. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	randGen *rand.Rand
	config  Config

	deck    *Deck
	players []*Player

	communityCards []Card
	street         Street

	dealerIdx  int
	currentIdx int

	pot        int
	currentBet int
	minRaise   int
	raiseCount int

	winners        []int
	winDescription string
	handNumber     int
}

func NewEngine(config Config) *Engine {
	randSource := rand.NewSource(config.RandomSeed)
	h := &Engine{
		randGen:        rand.New(randSource),
		config:         config,
		players:        make([]*Player, 0, 10),
		communityCards: make([]Card, 0, 5),
		street:         STREET_FINISHED,
		dealerIdx:      -1,
		currentIdx:     -1,
	}
	h.deck = NewDeck(h.randGen)
	return h
}

func (h *Engine) AddPlayer(name string, chips int) int {
	id := len(h.players)
	h.players = append(h.players, &Player{
		ID:    id,
		Name:  name,
		Chips: chips,
	})
	return id
}

// StartHand rotates the dealer to the next funded seat, deals hole cards and
// posts the blinds. The previous hand must be finished.
func (h *Engine) StartHand() error {
	if !h.HandFinished() {
		return ErrHandNotFinished
	}
	funded := 0
	for _, p := range h.players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return ErrNotEnoughPlayers
	}

	h.deck.Reset()
	h.communityCards = h.communityCards[:0]
	h.street = STREET_PREFLOP
	h.pot = 0
	h.currentBet = 0
	h.minRaise = h.config.BigBlind
	h.raiseCount = 0
	h.winners = nil
	h.winDescription = ""
	h.handNumber++

	for _, p := range h.players {
		p.beginHand()
	}
	h.dealerIdx = h.nextActiveSeat(h.dealerIdx)
	for _, p := range h.players {
		if p.IsActive {
			p.HoleCards = []Card{h.deck.Get(), h.deck.Get()}
		}
	}

	sb := h.nextActiveSeat(h.dealerIdx)
	bb := h.nextActiveSeat(sb)
	h.placeBet(h.players[sb], h.config.SmallBlind)
	h.placeBet(h.players[bb], h.config.BigBlind)
	h.currentBet = h.config.BigBlind
	h.minRaise = h.config.BigBlind

	h.currentIdx = h.nextActorSeat(bb)
	if h.currentIdx == -1 {
		// Blinds put everyone all-in already.
		h.finishByRunOut()
	}
	return nil
}

// ApplyAction validates the action fully before mutating anything. On error
// the hand state is unchanged.
func (h *Engine) ApplyAction(seatID int, action Action) error {
	if h.HandFinished() {
		return ErrHandFinished
	}
	if seatID < 0 || seatID >= len(h.players) {
		return ErrUnknownSeat
	}
	if seatID != h.currentIdx {
		return ErrNotYourTurn
	}
	p := h.players[seatID]

	kind := action.Kind
	amount := action.Amount

	switch kind {
	case ACTION_FOLD:
		// always legal

	case ACTION_CHECK:
		if p.StreetBet < h.currentBet {
			return ErrCannotCheck
		}

	case ACTION_CALL:
		// calling with nothing to call plays as a check

	case ACTION_RAISE:
		maxTotal := p.StreetBet + p.Chips
		if amount > maxTotal {
			return ErrNotEnoughChips
		}
		isAllIn := amount == maxTotal
		if amount <= h.currentBet {
			if !isAllIn {
				return ErrRaiseTooSmall
			}
			// all of the stack but not enough to raise: plays as all-in call
		} else {
			if amount-h.currentBet < h.minRaise && !isAllIn {
				return ErrRaiseTooSmall
			}
			if h.raiseCount >= h.config.MaxRaisesPerStreet && !isAllIn {
				return ErrRaiseCapReached
			}
		}

	case ACTION_ALLIN:
		if p.Chips == 0 {
			return ErrNotEnoughChips
		}

	default:
		return ErrInvalidAction
	}

	switch kind {
	case ACTION_FOLD:
		p.IsActive = false

	case ACTION_CHECK:
		// no chips move

	case ACTION_CALL:
		toCall := h.currentBet - p.StreetBet
		if toCall > 0 {
			h.placeBet(p, min(toCall, p.Chips))
		}

	case ACTION_RAISE:
		isRaise := amount > h.currentBet
		h.placeBet(p, amount-p.StreetBet)
		if isRaise {
			h.raiseCount++
			h.reopenAction(p)
		}

	case ACTION_ALLIN:
		target := p.StreetBet + p.Chips
		isRaise := target > h.currentBet
		h.placeBet(p, p.Chips)
		if isRaise {
			h.raiseCount++
			h.reopenAction(p)
		}
	}

	p.HasActed = true
	h.advanceTurn()
	return nil
}

// placeBet moves chips from the seat into the pot, clamped to the stack,
// and tracks the table bet level and min-raise delta.
func (h *Engine) placeBet(p *Player, amount int) {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.StreetBet += amount
	p.HandBet += amount
	h.pot += amount
	if p.Chips == 0 {
		p.IsAllIn = true
	}
	if p.StreetBet > h.currentBet {
		delta := p.StreetBet - h.currentBet
		if delta > h.minRaise {
			h.minRaise = delta
		}
		h.currentBet = p.StreetBet
	}
}

// reopenAction clears HasActed for every other seat that can still respond.
func (h *Engine) reopenAction(raiser *Player) {
	for _, p := range h.players {
		if p != raiser && p.canAct() {
			p.HasActed = false
		}
	}
}

func (h *Engine) advanceTurn() {
	contenders := 0
	last := -1
	for i, p := range h.players {
		if p.IsActive {
			contenders++
			last = i
		}
	}
	if contenders == 1 {
		h.resolveFoldWin(last)
		return
	}

	if h.bettingRoundComplete() {
		h.nextStreet()
		return
	}

	next := h.nextActorSeat(h.currentIdx)
	if next == -1 {
		// Nobody left to act but the round did not settle. Should not
		// happen; run the board out rather than stall the hand.
		h.finishByRunOut()
		return
	}
	h.currentIdx = next
}

func (h *Engine) bettingRoundComplete() bool {
	for _, p := range h.players {
		if !p.canAct() {
			continue
		}
		if !p.HasActed || p.StreetBet < h.currentBet {
			return false
		}
	}
	return true
}

func (h *Engine) nextStreet() {
	for _, p := range h.players {
		p.StreetBet = 0
		p.HasActed = false
	}
	h.currentBet = 0
	h.minRaise = h.config.BigBlind
	h.raiseCount = 0

	switch h.street {
	case STREET_PREFLOP:
		h.street = STREET_FLOP
		h.communityCards = append(h.communityCards, h.deck.Get(), h.deck.Get(), h.deck.Get())
	case STREET_FLOP:
		h.street = STREET_TURN
		h.communityCards = append(h.communityCards, h.deck.Get())
	case STREET_TURN:
		h.street = STREET_RIVER
		h.communityCards = append(h.communityCards, h.deck.Get())
	case STREET_RIVER:
		h.resolveShowdown()
		return
	default:
		h.resolveShowdown()
		return
	}

	if h.countCanAct() < 2 {
		// No more betting possible, run the remaining streets out.
		h.nextStreet()
		return
	}
	h.currentIdx = h.nextActorSeat(h.dealerIdx)
}

func (h *Engine) finishByRunOut() {
	for len(h.communityCards) < 5 {
		h.communityCards = append(h.communityCards, h.deck.Get())
	}
	h.street = STREET_RIVER
	h.resolveShowdown()
}

func (h *Engine) resolveShowdown() {
	h.street = STREET_SHOWDOWN
	h.currentIdx = -1

	pots := sidePots(h.players)
	playersCards := make([][]Card, len(h.players))
	for i, p := range h.players {
		if p.IsActive {
			playersCards[i] = p.HoleCards
		}
	}

	winnersSet := make(map[int]struct{})
	for potIdx, pot := range pots {
		eligibleCards := make([][]Card, len(h.players))
		for _, id := range pot.Eligible {
			eligibleCards[id] = playersCards[id]
		}
		mask, bestRank := BestWinners(eligibleCards, h.communityCards)

		potWinners := make([]int, 0, len(mask))
		for id, v := range mask {
			if v == 1 {
				potWinners = append(potWinners, id)
			}
		}
		if len(potWinners) == 0 {
			continue
		}

		share := pot.Amount / len(potWinners)
		odd := pot.Amount % len(potWinners)
		for _, id := range potWinners {
			h.players[id].Chips += share
			winnersSet[id] = struct{}{}
		}
		if odd > 0 {
			h.players[h.firstSeatFromDealer(potWinners)].Chips += odd
		}
		if potIdx == 0 {
			h.winDescription = DescribeHand(bestRank)
		}
	}

	h.winners = make([]int, 0, len(winnersSet))
	for id := range winnersSet {
		h.winners = append(h.winners, id)
	}
	slices.Sort(h.winners)
	h.street = STREET_FINISHED
}

func (h *Engine) resolveFoldWin(winnerID int) {
	h.street = STREET_FINISHED
	h.currentIdx = -1
	h.players[winnerID].Chips += h.pot
	h.winners = []int{winnerID}
	h.winDescription = "Opponents Folded"
}

// firstSeatFromDealer picks the first of the given seats clockwise from the
// dealer. Used for odd-chip awards so the rule is deterministic.
func (h *Engine) firstSeatFromDealer(seats []int) int {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		id := (h.dealerIdx + i) % n
		if slices.Contains(seats, id) {
			return id
		}
	}
	return seats[0]
}

// nextActiveSeat walks clockwise to the next seat still in the hand.
func (h *Engine) nextActiveSeat(from int) int {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		id := (from + i) % n
		p := h.players[id]
		if p.IsActive {
			return id
		}
	}
	return from
}

// nextActorSeat walks clockwise to the next seat that still owes a decision,
// or -1 when nobody does.
func (h *Engine) nextActorSeat(from int) int {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		id := (from + i) % n
		p := h.players[id]
		if p.canAct() && (!p.HasActed || p.StreetBet < h.currentBet) {
			return id
		}
	}
	return -1
}

func (h *Engine) countCanAct() int {
	cnt := 0
	for _, p := range h.players {
		if p.canAct() {
			cnt++
		}
	}
	return cnt
}

func (h *Engine) HandFinished() bool {
	return h.street == STREET_FINISHED
}

// WentToShowdown reports whether the last hand was contested to a showdown,
// as opposed to everyone folding.
func (h *Engine) WentToShowdown() bool {
	return h.HandFinished() && len(h.winners) > 0 &&
		h.winDescription != "" && h.winDescription != "Opponents Folded"
}

func (h *Engine) Street() Street {
	return h.street
}

// CurrentSeatID returns the seat to act, or -1 when the hand is over.
func (h *Engine) CurrentSeatID() int {
	if h.HandFinished() {
		return -1
	}
	return h.currentIdx
}

func (h *Engine) DealerSeatID() int {
	return h.dealerIdx
}

func (h *Engine) Pot() int {
	return h.pot
}

func (h *Engine) Players() []*Player {
	return h.players
}

func (h *Engine) HandNumber() int {
	return h.handNumber
}

func (h *Engine) Winners() []int {
	return h.winners
}
