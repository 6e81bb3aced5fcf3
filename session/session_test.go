package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberholdem/ai"
	"cyberholdem/holdem"
)

type recordedEvent struct {
	Event   EventType
	Payload any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (h *recordingBroadcaster) Emit(event EventType, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, recordedEvent{Event: event, Payload: payload})
}

func (h *recordingBroadcaster) count(event EventType) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func testConfig() Config {
	return Config{
		SmallBlind:         10,
		BigBlind:           20,
		StartingStack:      5000,
		MaxRaisesPerStreet: 4,
		DefaultEngine:      "rule-based",
		LLMTimeout:         time.Second,
		RandomSeed:         42,
		// Zero think delay keeps the bot loop instant in tests.
	}
}

func newTestSession(t *testing.T) (*Session, *recordingBroadcaster) {
	t.Helper()
	out := &recordingBroadcaster{}
	return New(testConfig(), out, zerolog.Nop()), out
}

func chipSum(s *Session) int {
	total := 0
	for _, p := range s.engine.Players() {
		total += p.Chips
	}
	return total
}

// playHand drives the current hand to completion, calling whenever the
// human must act.
func playHand(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 50; i++ {
		if s.engine.HandFinished() {
			return
		}
		require.Equal(t, 0, s.engine.CurrentSeatID(), "only the human should be left to act")
		require.NoError(t, s.ApplyHumanAction("call", 0))
	}
	t.Fatal("hand did not finish")
}

func TestStartGameSeatsTable(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.StartGame())

	players := s.engine.Players()
	require.Len(t, players, 6)
	assert.Equal(t, "PLAYER", players[0].Name)
	assert.Equal(t, "NEON", players[1].Name)
	assert.Equal(t, "CIPHER", players[5].Name)

	// Bots acted until the human's turn or the hand resolved on its own.
	assert.True(t, s.engine.CurrentSeatID() == 0 || s.engine.HandFinished())
	assert.Greater(t, out.count(EVENT_GAME_STATE), 0)
	assert.False(t, s.inFlight, "in-flight flag must clear when the command settles")
}

func TestPlayFullHandConservesChips(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.StartGame())

	playHand(t, s)
	assert.Equal(t, 30000, chipSum(s))
	assert.NotEmpty(t, s.engine.Winners())
	assert.Greater(t, out.count(EVENT_PLAYER_ACTED), 0)
}

func TestSingleFlightRejectsDuplicates(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.StartGame())

	s.inFlight = true
	assert.ErrorIs(t, s.StartGame(), ErrDecisionInFlight)
	assert.ErrorIs(t, s.ApplyHumanAction("call", 0), ErrDecisionInFlight)
	assert.ErrorIs(t, s.StartNextHand(), ErrDecisionInFlight)

	// Reset is the escape hatch: it ignores the flag and invalidates the
	// stuck command via the generation counter.
	require.NoError(t, s.ResetGame())
	assert.False(t, s.inFlight)
}

func TestClearInFlightRespectsGeneration(t *testing.T) {
	s, _ := newTestSession(t)

	s.inFlight = true
	stale := s.generation
	s.generation++

	s.clearInFlight(stale)
	assert.True(t, s.inFlight, "a superseded command must not clear the flag")

	s.clearInFlight(s.generation)
	assert.False(t, s.inFlight)
}

func TestStartNextHandRotates(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.StartGame())
	playHand(t, s)

	firstDealer := s.engine.DealerSeatID()
	require.NoError(t, s.StartNextHand())
	assert.Equal(t, 2, s.engine.HandNumber())
	assert.NotEqual(t, firstDealer, s.engine.DealerSeatID())

	// Mid-hand it must refuse.
	if !s.engine.HandFinished() {
		assert.Error(t, s.StartNextHand())
	}
}

func TestCommandsRequireGame(t *testing.T) {
	s, _ := newTestSession(t)
	assert.ErrorIs(t, s.ApplyHumanAction("call", 0), ErrNoGame)
	assert.ErrorIs(t, s.StartNextHand(), ErrNoGame)
	assert.ErrorIs(t, s.RequestAdvice("", ""), ErrNoGame)
	assert.Nil(t, s.View())
}

func TestApplyHumanActionValidation(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.StartGame())
	if s.engine.HandFinished() {
		t.Skip("hand resolved before the human acted")
	}

	err := s.ApplyHumanAction("explode", 0)
	assert.ErrorIs(t, err, holdem.ErrInvalidAction)
}

func TestResetGameBumpsGeneration(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.StartGame())
	playHand(t, s)

	gen := s.generation
	require.NoError(t, s.ResetGame())
	assert.Greater(t, s.generation, gen)
	// Fresh stacks: chips in play add back up to the full buy-ins.
	if s.engine.HandFinished() {
		assert.Equal(t, 30000, chipSum(s))
	} else {
		assert.Equal(t, 30000, chipSum(s)+s.engine.Pot())
	}
	assert.Equal(t, 1, s.engine.HandNumber())
}

func TestSetEngine(t *testing.T) {
	s, out := newTestSession(t)

	assert.ErrorIs(t, s.SetEngine("quantum", ""), ErrUnknownEngine)

	require.NoError(t, s.SetEngine("gto", ""))
	assert.Equal(t, "gto", s.engineName)
	assert.Equal(t, 1, out.count(EVENT_LLM_STATUS))

	engine, _, llmConnected := s.HealthInfo(context.Background())
	assert.Equal(t, "gto", engine)
	assert.Nil(t, llmConnected, "no LLM engine active")
}

func TestSetLocale(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetLocale("zh")
	assert.Equal(t, "zh", s.locale)
	s.SetLocale("fr")
	assert.Equal(t, "zh", s.locale, "unknown locales are ignored")
}

func TestRequestAdviceEmits(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.StartGame())

	require.NoError(t, s.RequestAdvice("", ""))
	assert.Equal(t, 1, out.count(EVENT_AI_ADVICE))
}

func TestGameOverWhenHumanFelted(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.StartGame())
	playHand(t, s)

	s.mu.Lock()
	s.engine.Players()[0].Chips = 0
	s.emitGameState()
	s.emitGameState()
	s.mu.Unlock()

	// The event latches: repeated snapshots of a busted table fire it once.
	assert.Equal(t, 1, out.count(EVENT_GAME_OVER))

	require.NoError(t, s.ResetGame())
	s.mu.Lock()
	latched := s.gameOverSent
	s.mu.Unlock()
	assert.False(t, latched, "fresh stacks re-arm the event")
}

func TestConcurrentResetsKeepStateConsistent(t *testing.T) {
	cfg := testConfig()
	// Real think delays force the bot loop to release the mutex, so resets
	// from both goroutines interleave with in-flight decisions.
	cfg.ThinkDelayMin = time.Millisecond
	cfg.ThinkDelayMax = 2 * time.Millisecond
	out := &recordingBroadcaster{}
	s := New(cfg, out, zerolog.Nop())
	require.NoError(t, s.StartGame())

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if err := s.ResetGame(); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, p := range s.engine.Players() {
		total += p.Chips
	}
	if s.engine.HandFinished() {
		assert.Equal(t, 30000, total)
	} else {
		assert.Equal(t, 30000, total+s.engine.Pot())
	}
	assert.Equal(t, 1, s.engine.HandNumber())
}

func TestCoachFollowsEngine(t *testing.T) {
	s, _ := newTestSession(t)

	_, isGTO := s.coach.(*ai.GTOCoach)
	assert.True(t, isGTO, "non-LLM engines use the GTO coach")

	require.NoError(t, s.SetEngine("qwen-plus", ""))
	_, isLLM := s.coach.(*ai.LLMCoach)
	assert.True(t, isLLM, "LLM engines route advice through the model")

	require.NoError(t, s.SetEngine("rule-based", ""))
	_, isGTO = s.coach.(*ai.GTOCoach)
	assert.True(t, isGTO)
}

func TestViewIsHumanPOV(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.StartGame())

	view := s.View()
	require.NotNil(t, view)
	require.Len(t, view.Players, 6)
	assert.NotNil(t, view.Players[0].Hand, "human sees their own cards")
	if !s.engine.WentToShowdown() {
		for _, pv := range view.Players[1:] {
			assert.Nil(t, pv.Hand, "bot cards stay hidden")
		}
	}
}
