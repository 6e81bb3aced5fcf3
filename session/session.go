package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cyberholdem/ai"
	"cyberholdem/holdem"
)

var (
	ErrDecisionInFlight = errors.New("decision already in flight")
	ErrNoGame           = errors.New("no game in progress")
	ErrUnknownEngine    = errors.New("unknown AI engine")
)

// Config carries per-session settings. Zero ThinkDelayMax disables the
// thinking pause (tests).
type Config struct {
	SmallBlind         int
	BigBlind           int
	StartingStack      int
	MaxRaisesPerStreet int

	DefaultEngine  string
	OllamaHost     string
	OllamaModel    string
	DashScopeURL   string
	DashScopeKey   string
	DashScopeModel string
	LLMTimeout     time.Duration

	ThinkDelayMin time.Duration
	ThinkDelayMax time.Duration

	RandomSeed int64
}

const humanSeat = 0

var botProfiles = []struct {
	Name        string
	Personality string
}{
	{"NEON", "shark"},
	{"GRANITE", "rock"},
	{"BLAZE", "maniac"},
	{"GLACIER", "station"},
	{"CIPHER", "tag"},
}

// Session owns one table: the engine, the bot strategies and the outbound
// event stream. All mutating commands are serialized by the mutex; while
// bots are auto-playing the inFlight flag rejects further commands, and the
// generation counter invalidates bot decisions that outlive a reset or a
// new hand.
type Session struct {
	ID  uuid.UUID
	cfg Config
	out Broadcaster
	log zerolog.Logger

	mu           sync.Mutex
	engine       *holdem.Engine
	inFlight     bool
	generation   uint64
	gameOverSent bool

	engineName string
	modelName  string
	locale     string

	sharedStrategy ai.Strategy
	botStrategies  map[int]ai.Strategy
	ruleFallbacks  map[int]*ai.RuleBasedStrategy
	llm            *ai.LLMStrategy
	coach          ai.Coach
	gtoCoach       *ai.GTOCoach
	estimator      *ai.EquityEstimator
	rand           *rand.Rand
}

func New(cfg Config, out Broadcaster, log zerolog.Logger) *Session {
	id := uuid.New()
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	randGen := rand.New(rand.NewSource(seed))
	h := &Session{
		ID:         id,
		cfg:        cfg,
		out:        out,
		log:        log.With().Str("session", id.String()).Logger(),
		engineName: cfg.DefaultEngine,
		locale:     "en",
		estimator:  ai.NewEquityEstimator(rand.New(rand.NewSource(seed + 1))),
		rand:       randGen,
	}
	if h.engineName == "" {
		h.engineName = "rule-based"
	}
	h.gtoCoach = ai.NewGTOCoach(h.estimator, h.log)
	h.rebuildStrategies(h.engineName, h.modelName)
	return h
}

// newRand derives an independent rng for one strategy. Bot loops of
// superseded generations may still be deciding, so strategies never share
// the session rng. Caller holds the mutex.
func (h *Session) newRand() *rand.Rand {
	return rand.New(rand.NewSource(h.rand.Int63()))
}

// rebuildStrategies wires the strategy set for the requested engine.
// Rule-based gives every bot its own personality; GTO and LLM engines share
// one strategy instance. Caller holds the mutex.
func (h *Session) rebuildStrategies(engineName, model string) error {
	switch engineName {
	case "rule-based", "gto", "ollama", "qwen-plus", "qwen-max":
	default:
		return ErrUnknownEngine
	}

	fallbacks := make(map[int]*ai.RuleBasedStrategy, len(botProfiles))
	for i, prof := range botProfiles {
		fallbacks[i+1] = ai.NewRuleBasedStrategy(prof.Personality, h.newRand(), h.log)
	}
	h.ruleFallbacks = fallbacks
	h.botStrategies = nil
	h.sharedStrategy = nil
	h.llm = nil

	switch engineName {
	case "rule-based":
		strategies := make(map[int]ai.Strategy, len(botProfiles))
		for seat, s := range fallbacks {
			strategies[seat] = s
		}
		h.botStrategies = strategies
	case "gto":
		h.sharedStrategy = ai.NewGTOStrategy(h.newRand(), h.estimator, h.log)
	case "ollama":
		if model == "" {
			model = h.cfg.OllamaModel
		}
		client := ai.NewOllamaClient(h.cfg.OllamaHost, model, h.cfg.LLMTimeout, h.log)
		h.llm = ai.NewLLMStrategy(client, ai.NewRuleBasedStrategy("shark", h.newRand(), h.log), h.cfg.LLMTimeout, h.log)
		h.sharedStrategy = h.llm
	case "qwen-plus", "qwen-max":
		if model == "" {
			model = engineName
		}
		client := ai.NewOpenAICompatClient(h.cfg.DashScopeURL, h.cfg.DashScopeKey, model, h.cfg.LLMTimeout, h.log)
		h.llm = ai.NewLLMStrategy(client, ai.NewRuleBasedStrategy("shark", h.newRand(), h.log), h.cfg.LLMTimeout, h.log)
		h.sharedStrategy = h.llm
	}

	if h.llm != nil {
		h.coach = ai.NewLLMCoach(h.llm.Client(), h.gtoCoach, h.cfg.LLMTimeout, h.log)
	} else {
		h.coach = h.gtoCoach
	}

	h.engineName = engineName
	h.modelName = model
	h.log.Info().Str("engine", engineName).Str("model", model).Msg("strategies rebuilt")
	return nil
}

func (h *Session) strategyFor(seat int) ai.Strategy {
	if s, ok := h.botStrategies[seat]; ok {
		return s
	}
	return h.sharedStrategy
}

func (h *Session) clearInFlight(gen uint64) {
	if h.generation == gen {
		h.inFlight = false
	}
}

func (h *Session) newTable() error {
	h.gameOverSent = false
	h.engine = holdem.NewEngine(holdem.Config{
		RandomSeed:         h.rand.Int63(),
		SmallBlind:         h.cfg.SmallBlind,
		BigBlind:           h.cfg.BigBlind,
		MaxRaisesPerStreet: h.cfg.MaxRaisesPerStreet,
	})
	h.engine.AddPlayer("PLAYER", h.cfg.StartingStack)
	for _, prof := range botProfiles {
		h.engine.AddPlayer(prof.Name, h.cfg.StartingStack)
	}
	return h.engine.StartHand()
}

// StartGame seats the human with five bots, starts the first hand and lets
// the bots act until the human must decide.
func (h *Session) StartGame() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inFlight {
		return ErrDecisionInFlight
	}

	h.generation++
	gen := h.generation
	h.inFlight = true
	defer h.clearInFlight(gen)

	if err := h.newTable(); err != nil {
		return err
	}
	h.emitGameState()
	h.runBotLoop(gen)
	return nil
}

// ApplyHumanAction applies the human's action and then drives the bots.
func (h *Session) ApplyHumanAction(actionKind string, amount int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inFlight {
		return ErrDecisionInFlight
	}
	if h.engine == nil {
		return ErrNoGame
	}

	kind, err := holdem.ParseActionKind(actionKind)
	if err != nil {
		return err
	}
	if amount < 0 {
		amount = 0
	}
	if h.engine.CurrentSeatID() != humanSeat {
		return holdem.ErrNotYourTurn
	}
	if err := h.engine.ApplyAction(humanSeat, holdem.Action{Kind: kind, Amount: amount}); err != nil {
		return err
	}

	gen := h.generation
	h.inFlight = true
	defer h.clearInFlight(gen)

	h.out.Emit(EVENT_PLAYER_ACTED, PlayerActedEvent{
		PlayerID:   humanSeat,
		PlayerName: h.engine.Players()[humanSeat].Name,
		Action:     string(kind),
		Amount:     amount,
	})
	h.emitGameState()
	h.runBotLoop(gen)
	return nil
}

// StartNextHand deals the next hand once the previous one finished.
func (h *Session) StartNextHand() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inFlight {
		return ErrDecisionInFlight
	}
	if h.engine == nil {
		return ErrNoGame
	}

	if err := h.engine.StartHand(); err != nil {
		if errors.Is(err, holdem.ErrNotEnoughPlayers) && !h.gameOverSent {
			h.gameOverSent = true
			h.out.Emit(EVENT_GAME_OVER, GameOverEvent{Reason: "eliminated", FinalChips: 0})
		}
		return err
	}

	h.generation++
	gen := h.generation
	h.inFlight = true
	defer h.clearInFlight(gen)

	h.emitGameState()
	h.runBotLoop(gen)
	return nil
}

// ResetGame rebuilds the table with fresh stacks. It deliberately skips the
// inFlight check: bumping the generation makes any bot decision still in
// flight land on the floor.
func (h *Session) ResetGame() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.generation++
	gen := h.generation
	h.inFlight = true
	defer h.clearInFlight(gen)

	if err := h.newTable(); err != nil {
		return err
	}
	h.emitGameState()
	h.runBotLoop(gen)
	return nil
}

// SetEngine switches the AI engine, effective from the next bot decision,
// and reports LLM reachability.
func (h *Session) SetEngine(engineName, model string) error {
	h.mu.Lock()
	if err := h.rebuildStrategies(engineName, model); err != nil {
		h.mu.Unlock()
		return err
	}
	llm := h.llm
	h.mu.Unlock()

	status := "online"
	if llm != nil && !llm.Client().HealthCheck(context.Background()) {
		status = "offline"
	}
	h.out.Emit(EVENT_LLM_STATUS, LLMStatusEvent{Status: status})
	return nil
}

func (h *Session) SetLocale(locale string) {
	if locale != "en" && locale != "zh" {
		return
	}
	h.mu.Lock()
	h.locale = locale
	h.mu.Unlock()
	h.log.Info().Str("locale", locale).Msg("locale set")
}

// RequestAdvice analyzes the human's current spot. A differing engine/model
// pair switches the engine first, like the settings panel would. The coach
// runs on a snapshot outside the lock so a slow LLM never stalls the table.
func (h *Session) RequestAdvice(engineName, model string) error {
	h.mu.Lock()
	if h.engine == nil {
		h.mu.Unlock()
		return ErrNoGame
	}
	if engineName != "" && (engineName != h.engineName || model != h.modelName) {
		if err := h.rebuildStrategies(engineName, model); err != nil {
			h.mu.Unlock()
			return err
		}
	}
	view := h.engine.View(humanSeat)
	view.Locale = h.locale
	coach := h.coach
	h.mu.Unlock()

	advice := coach.Analyze(context.Background(), view, humanSeat)
	h.out.Emit(EVENT_AI_ADVICE, advice)
	return nil
}

// HealthInfo reports the current engine, model and LLM reachability.
// LLMConnected is nil when no LLM engine is active.
func (h *Session) HealthInfo(ctx context.Context) (engine, model string, llmConnected *bool) {
	h.mu.Lock()
	engine = h.engineName
	model = h.modelName
	llm := h.llm
	h.mu.Unlock()

	if llm != nil {
		ok := llm.Client().HealthCheck(ctx)
		llmConnected = &ok
	}
	return engine, model, llmConnected
}

// View returns the human's masked snapshot, or nil before StartGame.
func (h *Session) View() *holdem.GameView {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.engine == nil {
		return nil
	}
	return h.engine.View(humanSeat)
}

// emitGameState broadcasts the human POV snapshot, plus game over the first
// time a hand ends with the human felted. Caller holds the mutex.
func (h *Session) emitGameState() {
	h.out.Emit(EVENT_GAME_STATE, h.engine.View(humanSeat))
	if h.engine.HandFinished() && h.engine.Players()[humanSeat].Chips <= 0 && !h.gameOverSent {
		h.gameOverSent = true
		h.out.Emit(EVENT_GAME_OVER, GameOverEvent{Reason: "eliminated", FinalChips: 0})
	}
}

// runBotLoop drives bot turns until the human must act or the hand ends.
// Called with the mutex held; it releases the mutex around thinking pauses
// and strategy calls, and discards any result whose generation went stale.
func (h *Session) runBotLoop(gen uint64) {
	for {
		if h.generation != gen || h.engine.HandFinished() {
			return
		}
		seat := h.engine.CurrentSeatID()
		if seat <= humanSeat {
			return
		}
		p := h.engine.Players()[seat]
		if !p.IsActive || p.IsAllIn {
			return
		}

		strategy := h.strategyFor(seat)
		view := h.engine.View(seat)
		view.Locale = h.locale
		h.out.Emit(EVENT_AI_THINKING, ThinkingEvent{PlayerID: seat})

		delay := h.thinkDelay()
		h.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		decision, err := strategy.Decide(context.Background(), view, seat)
		h.mu.Lock()

		h.out.Emit(EVENT_AI_THINKING_DONE, ThinkingEvent{PlayerID: seat})
		if h.generation != gen {
			h.log.Debug().Int("seat", seat).Msg("discarding stale bot decision")
			return
		}
		if err != nil {
			h.log.Warn().Err(err).Int("seat", seat).Msg("strategy failed, using rule-based fallback")
			decision, err = h.ruleFallbacks[seat].Decide(context.Background(), view, seat)
			if err != nil {
				decision = ai.Decision{Action: holdem.ACTION_FOLD, Thought: "error fallback", Chat: "..."}
			}
		}

		if decision.Chat != "" {
			h.out.Emit(EVENT_AI_THOUGHT, AIThoughtEvent{
				PlayerID: seat,
				Thought:  decision.Thought,
				Chat:     decision.Chat,
			})
		}

		action := h.legalize(seat, decision)
		if err := h.engine.ApplyAction(seat, action); err != nil {
			h.log.Error().Err(err).Int("seat", seat).Str("action", string(action.Kind)).Msg("bot action rejected, folding")
			action = holdem.Action{Kind: holdem.ACTION_FOLD}
			if err := h.engine.ApplyAction(seat, action); err != nil {
				h.log.Error().Err(err).Int("seat", seat).Msg("forced fold failed")
				return
			}
		}

		h.out.Emit(EVENT_PLAYER_ACTED, PlayerActedEvent{
			PlayerID:   seat,
			PlayerName: p.Name,
			Action:     string(action.Kind),
			Amount:     action.Amount,
		})
		h.emitGameState()
	}
}

func (h *Session) thinkDelay() time.Duration {
	if h.cfg.ThinkDelayMax <= 0 {
		return 0
	}
	span := h.cfg.ThinkDelayMax - h.cfg.ThinkDelayMin
	if span <= 0 {
		return h.cfg.ThinkDelayMin
	}
	return h.cfg.ThinkDelayMin + time.Duration(h.rand.Int63n(int64(span)))
}

// legalize clamps a bot decision to something the engine will accept. A
// raise that cannot legally be made turns into a call or check.
func (h *Session) legalize(seat int, d ai.Decision) holdem.Action {
	view := h.engine.View(seat)
	me := view.Me(seat)
	toCall := view.ToCall(seat)

	switch d.Action {
	case holdem.ACTION_RAISE:
		maxTotal := me.Chips + me.StreetBet
		minTotal := view.CurrentBet + view.MinRaise
		if !view.CanRaise && d.Amount >= maxTotal && maxTotal > view.CurrentBet {
			// raise cap reached, but shoving the stack is still allowed
			return holdem.Action{Kind: holdem.ACTION_ALLIN}
		}
		if !view.CanRaise || maxTotal <= view.CurrentBet {
			if toCall > 0 {
				return holdem.Action{Kind: holdem.ACTION_CALL}
			}
			return holdem.Action{Kind: holdem.ACTION_CHECK}
		}
		amount := d.Amount
		if amount > maxTotal {
			amount = maxTotal
		}
		if amount < minTotal {
			if maxTotal < minTotal {
				amount = maxTotal // all-in raise below the minimum
			} else {
				amount = minTotal
			}
		}
		return holdem.Action{Kind: holdem.ACTION_RAISE, Amount: amount}
	case holdem.ACTION_CHECK:
		if toCall > 0 {
			return holdem.Action{Kind: holdem.ACTION_FOLD}
		}
	case holdem.ACTION_CALL, holdem.ACTION_FOLD, holdem.ACTION_ALLIN:
	default:
		return holdem.Action{Kind: holdem.ACTION_FOLD}
	}
	return holdem.Action{Kind: d.Action, Amount: d.Amount}
}
