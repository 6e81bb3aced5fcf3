package holdem

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func newTestEngine(players int, chips int) *Engine {
	h := NewEngine(Config{
		RandomSeed:         42,
		SmallBlind:         10,
		BigBlind:           20,
		MaxRaisesPerStreet: 4,
	})
	for i := 0; i < players; i++ {
		h.AddPlayer("p", chips)
	}
	return h
}

func chipTotal(h *Engine) int {
	total := 0
	for _, p := range h.Players() {
		total += p.Chips
	}
	return total
}

func TestBlindsPosted(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	if h.DealerSeatID() != 0 {
		t.Errorf("First hand dealer should be seat 0, got %d", h.DealerSeatID())
	}
	if h.Pot() != 30 {
		t.Errorf("Expected pot 30, got %d", h.Pot())
	}
	if h.Players()[1].Chips != 990 {
		t.Errorf("Small blind should pay 10, chips %d", h.Players()[1].Chips)
	}
	if h.Players()[2].Chips != 980 {
		t.Errorf("Big blind should pay 20, chips %d", h.Players()[2].Chips)
	}
	// Three-handed the button acts first preflop.
	if h.CurrentSeatID() != 0 {
		t.Errorf("Expected seat 0 to act, got %d", h.CurrentSeatID())
	}
	for _, p := range h.Players() {
		if len(p.HoleCards) != 2 {
			t.Errorf("Seat %d should hold 2 cards, got %d", p.ID, len(p.HoleCards))
		}
	}
}

func TestPreflopCallsReachFlop(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	if err := h.ApplyAction(0, Action{Kind: ACTION_CALL}); err != nil {
		t.Fatal(err)
	}
	if h.Pot() != 50 {
		t.Errorf("Expected pot 50 after button call, got %d", h.Pot())
	}
	if err := h.ApplyAction(1, Action{Kind: ACTION_CALL}); err != nil {
		t.Fatal(err)
	}
	// Big blind has the option and closes with a check.
	if h.Street() != STREET_PREFLOP {
		t.Fatalf("Big blind option skipped, street %s", h.Street())
	}
	if err := h.ApplyAction(2, Action{Kind: ACTION_CHECK}); err != nil {
		t.Fatal(err)
	}

	if h.Street() != STREET_FLOP {
		t.Fatalf("Expected FLOP, got %s", h.Street())
	}
	view := h.View(-1)
	if len(view.CommunityCards) != 3 {
		t.Errorf("Expected 3 community cards, got %d", len(view.CommunityCards))
	}
	if view.CurrentBet != 0 {
		t.Errorf("Street bet level should reset, got %d", view.CurrentBet)
	}
	for _, p := range h.Players() {
		if p.StreetBet != 0 {
			t.Errorf("Seat %d street bet should reset, got %d", p.ID, p.StreetBet)
		}
	}
	// Postflop action starts left of the dealer.
	if h.CurrentSeatID() != 1 {
		t.Errorf("Expected seat 1 to open the flop, got %d", h.CurrentSeatID())
	}
}

func TestCannotCheckFacingBet(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}
	err := h.ApplyAction(0, Action{Kind: ACTION_CHECK})
	if !errors.Is(err, ErrCannotCheck) {
		t.Errorf("Expected ErrCannotCheck, got %v", err)
	}
	// A rejected action must not advance the turn.
	if h.CurrentSeatID() != 0 {
		t.Errorf("Turn advanced after rejected action, seat %d", h.CurrentSeatID())
	}
}

func TestRaiseLegality(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	// Below the minimum raise and not all-in.
	err := h.ApplyAction(0, Action{Kind: ACTION_RAISE, Amount: 30})
	if !errors.Is(err, ErrRaiseTooSmall) {
		t.Fatalf("Expected ErrRaiseTooSmall, got %v", err)
	}
	// Beyond the stack.
	err = h.ApplyAction(0, Action{Kind: ACTION_RAISE, Amount: 1500})
	if !errors.Is(err, ErrNotEnoughChips) {
		t.Fatalf("Expected ErrNotEnoughChips, got %v", err)
	}

	if err := h.ApplyAction(0, Action{Kind: ACTION_RAISE, Amount: 40}); err != nil {
		t.Fatal(err)
	}
	view := h.View(-1)
	if view.CurrentBet != 40 {
		t.Errorf("Expected bet level 40, got %d", view.CurrentBet)
	}
	if view.RaiseCount != 1 {
		t.Errorf("Expected raise count 1, got %d", view.RaiseCount)
	}
}

func TestMinRaiseGrowsWithDelta(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	// Raise to 100 makes the delta 80, which becomes the new minimum raise.
	if err := h.ApplyAction(0, Action{Kind: ACTION_RAISE, Amount: 100}); err != nil {
		t.Fatal(err)
	}
	view := h.View(-1)
	if view.MinRaise != 80 {
		t.Errorf("Expected min raise 80, got %d", view.MinRaise)
	}
	// Re-raise to 150 is below 100+80.
	err := h.ApplyAction(1, Action{Kind: ACTION_RAISE, Amount: 150})
	if !errors.Is(err, ErrRaiseTooSmall) {
		t.Errorf("Expected ErrRaiseTooSmall, got %v", err)
	}
}

func TestRaiseCapAllInBypass(t *testing.T) {
	h := NewEngine(Config{
		RandomSeed:         42,
		SmallBlind:         10,
		BigBlind:           20,
		MaxRaisesPerStreet: 2,
	})
	for i := 0; i < 3; i++ {
		h.AddPlayer("p", 1000)
	}
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	if err := h.ApplyAction(0, Action{Kind: ACTION_RAISE, Amount: 40}); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction(1, Action{Kind: ACTION_RAISE, Amount: 60}); err != nil {
		t.Fatal(err)
	}

	// Cap reached: a normal raise is rejected.
	err := h.ApplyAction(2, Action{Kind: ACTION_RAISE, Amount: 80})
	if !errors.Is(err, ErrRaiseCapReached) {
		t.Fatalf("Expected ErrRaiseCapReached, got %v", err)
	}
	// Shoving the whole stack is still allowed.
	if err := h.ApplyAction(2, Action{Kind: ACTION_RAISE, Amount: 1000}); err != nil {
		t.Fatal(err)
	}
	view := h.View(-1)
	if view.CurrentBet != 1000 {
		t.Errorf("Expected bet level 1000 after all-in, got %d", view.CurrentBet)
	}
	if !h.Players()[2].IsAllIn {
		t.Error("Seat 2 should be all-in")
	}
	// The shove re-opens action for the earlier raisers.
	if h.CurrentSeatID() != 0 {
		t.Errorf("Expected seat 0 to act again, got %d", h.CurrentSeatID())
	}
}

func TestFoldWin(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	if err := h.ApplyAction(0, Action{Kind: ACTION_FOLD}); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction(1, Action{Kind: ACTION_FOLD}); err != nil {
		t.Fatal(err)
	}

	if !h.HandFinished() {
		t.Fatal("Hand should be finished")
	}
	if h.WentToShowdown() {
		t.Error("Fold win is not a showdown")
	}
	winners := h.Winners()
	if len(winners) != 1 || winners[0] != 2 {
		t.Fatalf("Expected seat 2 to win, got %v", winners)
	}
	if h.Players()[2].Chips != 1010 {
		t.Errorf("Winner should hold 1010, got %d", h.Players()[2].Chips)
	}
	view := h.View(-1)
	if view.WinningHand != "Opponents Folded" {
		t.Errorf("Expected fold-win description, got %q", view.WinningHand)
	}
	// Nobody's hole cards are revealed on a fold win.
	for _, pv := range view.Players {
		if pv.Hand != nil {
			t.Errorf("Seat %d cards leaked on fold win", pv.ID)
		}
	}
}

func TestAllInRunOutShowdown(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	if err := h.ApplyAction(0, Action{Kind: ACTION_ALLIN}); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction(1, Action{Kind: ACTION_ALLIN}); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction(2, Action{Kind: ACTION_ALLIN}); err != nil {
		t.Fatal(err)
	}

	if !h.HandFinished() {
		t.Fatal("Hand should run out to a finish")
	}
	if !h.WentToShowdown() {
		t.Fatal("All-in confrontation must reach showdown")
	}
	view := h.View(-1)
	if len(view.CommunityCards) != 5 {
		t.Errorf("Board should run out to 5 cards, got %d", len(view.CommunityCards))
	}
	if view.WinningHand == "" || view.WinningHand == "Opponents Folded" {
		t.Errorf("Expected a hand description, got %q", view.WinningHand)
	}
	if chipTotal(h) != 3000 {
		t.Errorf("Chips leaked: total %d", chipTotal(h))
	}
	// Showdown reveals the hands still contesting.
	revealed := 0
	for _, pv := range view.Players {
		if pv.Hand != nil {
			revealed++
		}
	}
	if revealed != 3 {
		t.Errorf("Expected 3 revealed hands, got %d", revealed)
	}
}

func TestStartHandGuards(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}
	if err := h.StartHand(); !errors.Is(err, ErrHandNotFinished) {
		t.Errorf("Expected ErrHandNotFinished, got %v", err)
	}

	solo := newTestEngine(1, 1000)
	if err := solo.StartHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("Expected ErrNotEnoughPlayers, got %v", err)
	}
}

func TestTurnOrderEnforced(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction(1, Action{Kind: ACTION_CALL}); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
	if err := h.ApplyAction(7, Action{Kind: ACTION_CALL}); !errors.Is(err, ErrUnknownSeat) {
		t.Errorf("Expected ErrUnknownSeat, got %v", err)
	}
}

func TestDealerRotatesToFundedSeat(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction(0, Action{Kind: ACTION_FOLD}); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction(1, Action{Kind: ACTION_FOLD}); err != nil {
		t.Fatal(err)
	}

	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}
	if h.DealerSeatID() != 1 {
		t.Errorf("Dealer should rotate to seat 1, got %d", h.DealerSeatID())
	}
	if h.HandNumber() != 2 {
		t.Errorf("Expected hand number 2, got %d", h.HandNumber())
	}
}

// randomLegalAction plays any legal action, all-in shoves included, to
// stress the betting state machine.
func randomLegalAction(h *Engine, seat int, rng *rand.Rand) Action {
	view := h.View(seat)
	me := view.Me(seat)
	toCall := view.ToCall(seat)

	actions := []Action{{Kind: ACTION_FOLD}}
	if toCall == 0 {
		actions = append(actions, Action{Kind: ACTION_CHECK})
	} else {
		actions = append(actions, Action{Kind: ACTION_CALL})
	}
	if me.Chips > 0 {
		actions = append(actions, Action{Kind: ACTION_ALLIN})
	}
	minTotal := view.CurrentBet + view.MinRaise
	maxTotal := me.Chips + me.StreetBet
	if view.CanRaise && maxTotal >= minTotal {
		actions = append(actions, Action{
			Kind:   ACTION_RAISE,
			Amount: minTotal + rng.Intn(maxTotal-minTotal+1),
		})
	}
	return actions[rng.Intn(len(actions))]
}

func TestChipConservationAcrossRandomHands(t *testing.T) {
	h := newTestEngine(6, 1000)
	rng := rand.New(rand.NewSource(7))

	for hand := 0; hand < 100; hand++ {
		if err := h.StartHand(); err != nil {
			if errors.Is(err, ErrNotEnoughPlayers) {
				break
			}
			t.Fatal(err)
		}

		steps := 0
		for !h.HandFinished() {
			seat := h.CurrentSeatID()
			action := randomLegalAction(h, seat, rng)
			if err := h.ApplyAction(seat, action); err != nil {
				t.Fatalf("hand %d: legal action %s rejected: %v", hand, action.Kind, err)
			}
			if steps++; steps > 200 {
				t.Fatalf("hand %d did not terminate", hand)
			}
		}

		if got := chipTotal(h); got != 6000 {
			t.Fatalf("hand %d: chips not conserved, total %d", hand, got)
		}
		if len(h.Winners()) == 0 {
			t.Fatalf("hand %d finished without winners", hand)
		}
	}
}

func BenchmarkHandPlayout(b *testing.B) {
	desiredN := 5000
	if b.N < desiredN {
		b.N = desiredN
	}

	h := newTestEngine(6, 1000)
	rng := rand.New(rand.NewSource(42))

	var handsCompleted int
	var totalSteps int

	b.ResetTimer()
	startTime := time.Now()
	for i := 0; i < b.N; i++ {
		// Top stacks back up so every iteration plays a full table.
		for _, p := range h.Players() {
			p.Chips = 1000
		}
		if err := h.StartHand(); err != nil {
			b.Fatal(err)
		}

		stepsInHand := 0
		for !h.HandFinished() {
			seat := h.CurrentSeatID()
			if err := h.ApplyAction(seat, randomLegalAction(h, seat, rng)); err != nil {
				b.Fatal(err)
			}
			stepsInHand++
		}

		handsCompleted++
		totalSteps += stepsInHand
	}

	duration := time.Since(startTime)
	handsPerSecond := float64(handsCompleted) / duration.Seconds()

	b.ReportMetric(float64(totalSteps)/float64(b.N), "steps/hand")

	b.ReportMetric(handsPerSecond, "hands/sec")
	b.ReportMetric(duration.Seconds()/float64(handsCompleted), "sec/hand")
}

func TestViewMasksOpponentCards(t *testing.T) {
	h := newTestEngine(3, 1000)
	if err := h.StartHand(); err != nil {
		t.Fatal(err)
	}

	view := h.View(0)
	for _, pv := range view.Players {
		if pv.ID == 0 && pv.Hand == nil {
			t.Error("Observer should see their own cards")
		}
		if pv.ID != 0 && pv.Hand != nil {
			t.Errorf("Seat %d cards leaked mid-hand", pv.ID)
		}
	}
}
