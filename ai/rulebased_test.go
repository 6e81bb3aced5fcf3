package ai

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberholdem/holdem"
)

func TestPreflopStrength(t *testing.T) {
	c := holdem.NewCard
	tests := []struct {
		name     string
		hand     []holdem.Card
		expected float64
	}{
		{"aces", []holdem.Card{c(holdem.RANK_ACE, holdem.SUIT_HEARTS), c(holdem.RANK_ACE, holdem.SUIT_SPADES)}, 0.92},
		{"big slick", []holdem.Card{c(holdem.RANK_KING, holdem.SUIT_CLUBS), c(holdem.RANK_ACE, holdem.SUIT_HEARTS)}, 0.85},
		{"ace queen", []holdem.Card{c(holdem.RANK_ACE, holdem.SUIT_HEARTS), c(holdem.RANK_QUEEN, holdem.SUIT_CLUBS)}, 0.75},
		{"broadway offsuit", []holdem.Card{c(holdem.RANK_JACK, holdem.SUIT_HEARTS), c(holdem.RANK_TEN, holdem.SUIT_CLUBS)}, 0.72},
		{"nines", []holdem.Card{c(holdem.RANK_NINE, holdem.SUIT_HEARTS), c(holdem.RANK_NINE, holdem.SUIT_CLUBS)}, 0.65},
		{"suited king", []holdem.Card{c(holdem.RANK_KING, holdem.SUIT_HEARTS), c(holdem.RANK_FIVE, holdem.SUIT_HEARTS)}, 0.60},
		{"weak ace", []holdem.Card{c(holdem.RANK_ACE, holdem.SUIT_HEARTS), c(holdem.RANK_TWO, holdem.SUIT_CLUBS)}, 0.55},
		{"small pair", []holdem.Card{c(holdem.RANK_FOUR, holdem.SUIT_HEARTS), c(holdem.RANK_FOUR, holdem.SUIT_CLUBS)}, 0.42},
		{"junk", []holdem.Card{c(holdem.RANK_SEVEN, holdem.SUIT_HEARTS), c(holdem.RANK_TWO, holdem.SUIT_CLUBS)}, 0.25},
		{"short hand", []holdem.Card{c(holdem.RANK_ACE, holdem.SUIT_HEARTS)}, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, preflopStrength(tt.hand))
		})
	}
}

func TestDecideInactiveSeatFolds(t *testing.T) {
	s := NewRuleBasedStrategy("rock", rand.New(rand.NewSource(1)), zerolog.Nop())
	view := flopView()
	view.Players[0].IsActive = false

	d, err := s.Decide(context.Background(), view, 0)
	require.NoError(t, err)
	assert.Equal(t, holdem.ACTION_FOLD, d.Action)
}

func TestDecideProducesValidActions(t *testing.T) {
	valid := []holdem.ActionKind{
		holdem.ACTION_FOLD, holdem.ACTION_CHECK, holdem.ACTION_CALL, holdem.ACTION_RAISE,
	}

	for name := range Personalities {
		t.Run(name, func(t *testing.T) {
			s := NewRuleBasedStrategy(name, rand.New(rand.NewSource(9)), zerolog.Nop())

			facingBet := flopView()
			unopened := flopView()
			unopened.CurrentBet = 0
			unopened.Players[1].StreetBet = 0

			for i := 0; i < 100; i++ {
				d, err := s.Decide(context.Background(), facingBet, 0)
				require.NoError(t, err)
				assert.Contains(t, valid, d.Action)
				assert.NotEqual(t, holdem.ACTION_CHECK, d.Action, "cannot check facing a bet")
				assert.NotEmpty(t, d.Chat)

				d, err = s.Decide(context.Background(), unopened, 0)
				require.NoError(t, err)
				assert.Contains(t, valid, d.Action)
				assert.NotEqual(t, holdem.ACTION_CALL, d.Action, "nothing to call")
				if d.Action == holdem.ACTION_RAISE {
					assert.Greater(t, d.Amount, 0)
					assert.LessOrEqual(t, d.Amount, unopened.Players[0].Chips)
				}
			}
		})
	}
}

func TestDecideIsSafeForConcurrentUse(t *testing.T) {
	// Bot loops from a superseded hand can still be deciding while a fresh
	// loop runs, so one strategy instance must tolerate concurrent calls.
	s := NewRuleBasedStrategy("shark", rand.New(rand.NewSource(9)), zerolog.Nop())
	view := flopView()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				d, err := s.Decide(context.Background(), view, 0)
				if err != nil {
					t.Error(err)
				}
				if d.Action == "" {
					t.Error("empty action")
				}
			}
		}()
	}
	wg.Wait()
}

func TestUnknownPersonalityDefaultsToShark(t *testing.T) {
	s := NewRuleBasedStrategy("alien", rand.New(rand.NewSource(1)), zerolog.Nop())
	assert.Equal(t, "shark", s.p.Name)
}

func TestChatFollowsLocale(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := Personalities["maniac"]

	for i := 0; i < 20; i++ {
		en := p.chat(rng, holdem.ACTION_RAISE, "en")
		assert.True(t, slices.Contains(p.chatEN.raise, en), "got %q", en)

		zh := p.chat(rng, holdem.ACTION_RAISE, "zh")
		assert.True(t, slices.Contains(p.chatZH.raise, zh), "got %q", zh)
	}

	assert.Equal(t, "...", p.chat(rng, holdem.ACTION_ALLIN, "en"))
}
