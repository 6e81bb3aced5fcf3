package ai

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberholdem/holdem"
)

type scriptedClient struct {
	reply   string
	err     error
	healthy bool
	calls   int
}

func (h *scriptedClient) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	h.calls++
	return h.reply, h.err
}

func (h *scriptedClient) HealthCheck(ctx context.Context) bool {
	return h.healthy
}

func flopView() *holdem.GameView {
	return &holdem.GameView{
		State:              holdem.STREET_FLOP,
		Pot:                100,
		CurrentBet:         20,
		MinRaise:           20,
		MaxRaisesPerStreet: 4,
		CanRaise:           true,
		CurrentPlayerIdx:   0,
		CommunityCards: []holdem.Card{
			holdem.NewCard(holdem.RANK_KING, holdem.SUIT_HEARTS),
			holdem.NewCard(holdem.RANK_SEVEN, holdem.SUIT_DIAMONDS),
			holdem.NewCard(holdem.RANK_TWO, holdem.SUIT_CLUBS),
		},
		Players: []holdem.PlayerView{
			{
				ID: 0, Name: "bot", Chips: 980, IsActive: true,
				Hand: []holdem.Card{
					holdem.NewCard(holdem.RANK_ACE, holdem.SUIT_SPADES),
					holdem.NewCard(holdem.RANK_KING, holdem.SUIT_SPADES),
				},
			},
			{ID: 1, Name: "villain", Chips: 960, StreetBet: 20, IsActive: true},
		},
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"action": "call", "amount": 0, "thought": "pot odds", "chat_message": "ok"}`,
			want: "call",
		},
		{
			name: "object after prose with braces",
			raw:  `{not json at all} and then {"action": "raise", "amount": 60}`,
			want: "raise",
		},
		{
			name: "trailing prose ignored",
			raw:  `{"action": "check"} that is my final answer`,
			want: "check",
		},
		{
			name: "thought contains braces",
			raw:  `好的。{"action": "fold", "thought": "对手范围 {AA, KK}"}`,
			want: "fold",
		},
		{
			name: "action-less echo object skipped",
			raw:  `{"pot": 100, "street": "FLOP"} {"action": "call", "amount": 0}`,
			want: "call",
		},
		{
			name:    "no json fails closed",
			raw:     "I think I should probably call here.",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := extractJSONObject(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Action)
		})
	}
}

func TestParseLLMResponseRejectsUnknownAction(t *testing.T) {
	_, err := parseLLMResponse(`{"action": "invade", "amount": 0}`, flopView(), 0)
	assert.Error(t, err)
}

func TestParseLLMResponseClampsRaise(t *testing.T) {
	view := flopView()

	// Below the table minimum.
	d, err := parseLLMResponse(`{"action": "raise", "amount": 5}`, view, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, d.Amount)

	// Beyond the stack.
	d, err = parseLLMResponse(`{"action": "raise", "amount": 99999}`, view, 0)
	require.NoError(t, err)
	assert.Equal(t, 980, d.Amount)

	// Amounts on non-raise actions are noise.
	d, err = parseLLMResponse(`{"action": "call", "amount": 500}`, view, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Amount)
}

func TestLLMStrategyFallsBackOnClientError(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fallback := NewRuleBasedStrategy("shark", rng, zerolog.Nop())
	strategy := NewLLMStrategy(&scriptedClient{err: errors.New("connection refused")}, fallback, time.Second, zerolog.Nop())

	d, err := strategy.Decide(context.Background(), flopView(), 0)
	require.NoError(t, err)
	assert.Contains(t, []holdem.ActionKind{
		holdem.ACTION_FOLD, holdem.ACTION_CHECK, holdem.ACTION_CALL, holdem.ACTION_RAISE,
	}, d.Action)
}

func TestLLMStrategyFallsBackOnGarbage(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fallback := NewRuleBasedStrategy("shark", rng, zerolog.Nop())
	strategy := NewLLMStrategy(&scriptedClient{reply: "hmm, tough spot"}, fallback, time.Second, zerolog.Nop())

	_, err := strategy.Decide(context.Background(), flopView(), 0)
	assert.NoError(t, err)
}

func TestLLMStrategySkipsLLMPreflop(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fallback := NewRuleBasedStrategy("shark", rng, zerolog.Nop())
	client := &scriptedClient{reply: `{"action": "raise", "amount": 100}`}
	strategy := NewLLMStrategy(client, fallback, time.Second, zerolog.Nop())

	view := flopView()
	view.State = holdem.STREET_PREFLOP
	view.CommunityCards = nil

	// Preflop is rule-based for speed; the client must not be consulted.
	_, err := strategy.Decide(context.Background(), view, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, client.calls)
}
