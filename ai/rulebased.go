package ai

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"cyberholdem/common/random"
	"cyberholdem/holdem"
)

// Strength noise simulates imperfect reads; loose personalities get extra
// variance.
const (
	noiseBase        = 0.12
	noiseLooseFactor = 0.08

	bluffBetFrac       = 0.40
	bluffRaiseFrac     = 0.55
	weakBluffThreshold = 0.30
	bluffRaiseFreqMult = 0.60

	stationTightness = 0.30
	stationAggro     = 0.40
	stationCallProb  = 0.45

	sizeStrongThreshold = 0.85
	sizeMediumThreshold = 0.65

	sizeStrongFracBase = 0.75
	sizeStrongFracAggr = 0.25
	sizeMediumFracBase = 0.45
	sizeMediumFracAggr = 0.20
	sizeWeakFracBase   = 0.30
	sizeWeakFracAggr   = 0.15

	betJitterLo = 0.85
	betJitterHi = 1.15
)

type chatPool struct {
	fold, check, call, raise []string
}

// Personality defines a bot's playing style.
type Personality struct {
	Name       string
	Aggression float64 // 0 passive .. 1 very aggressive
	Tightness  float64 // 0 loose .. 1 very tight
	BluffFreq  float64

	chatEN chatPool
	chatZH chatPool
}

var Personalities = map[string]Personality{
	"shark": {
		Name: "shark", Aggression: 0.7, Tightness: 0.5, BluffFreq: 0.25,
		chatEN: chatPool{
			fold:  []string{"Folding... for now.", "Not worth it.", "I'll wait."},
			check: []string{"Check.", "I'll let it ride."},
			call:  []string{"I call.", "Let's see the next card.", "I'm in."},
			raise: []string{"Raise.", "Time to build this pot.", "Pay up.", "Let's go."},
		},
		chatZH: chatPool{
			fold:  []string{"弃牌…暂时。", "不值得。", "我等等。"},
			check: []string{"过牌。", "让子弹飞一会。"},
			call:  []string{"跟注。", "看看下一张。", "我跟。"},
			raise: []string{"加注。", "该做大这个底池了。", "交钱吧。", "来吧。"},
		},
	},
	"rock": {
		Name: "rock", Aggression: 0.2, Tightness: 0.8, BluffFreq: 0.05,
		chatEN: chatPool{
			fold:  []string{"Fold.", "Not my hand.", "I'll pass."},
			check: []string{"Check.", "Checking."},
			call:  []string{"...call.", "Fine, I call.", "I'll see it."},
			raise: []string{"Raise.", "I have a hand."},
		},
		chatZH: chatPool{
			fold:  []string{"弃牌。", "不是我的牌。", "过。"},
			check: []string{"过牌。", "过。"},
			call:  []string{"…跟。", "好吧，跟注。", "看看。"},
			raise: []string{"加注。", "我有牌。"},
		},
	},
	"maniac": {
		Name: "maniac", Aggression: 0.9, Tightness: 0.15, BluffFreq: 0.40,
		chatEN: chatPool{
			fold:  []string{"Ugh, fine.", "Whatever.", "Next hand!"},
			check: []string{"Check... boring.", "Check I guess."},
			call:  []string{"CALL!", "Let's go!", "I'm not scared.", "Bring it!"},
			raise: []string{"ALL DAY!", "RAISE!", "You scared?", "Let's gamble!", "Come on!", "Can you handle this?"},
		},
		chatZH: chatPool{
			fold:  []string{"切，算了。", "随便吧。", "下一把！"},
			check: []string{"过牌…无聊。", "过吧。"},
			call:  []string{"跟！", "来吧！", "我不怕！", "放马过来！"},
			raise: []string{"全天候！", "加注！", "你怕了？", "来赌啊！", "来嘛！", "你接得住吗？"},
		},
	},
	"station": {
		Name: "station", Aggression: 0.2, Tightness: 0.15, BluffFreq: 0.08,
		chatEN: chatPool{
			fold:  []string{"Okay... fold.", "I guess I fold."},
			check: []string{"Check.", "I check."},
			call:  []string{"Call.", "I'll call.", "Let me see.", "I call, show me.", "Calling.", "I want to see your cards."},
			raise: []string{"Raise.", "Small raise."},
		},
		chatZH: chatPool{
			fold:  []string{"好吧…弃牌。", "那就弃吧。"},
			check: []string{"过牌。", "我过。"},
			call:  []string{"跟注。", "我跟。", "让我看看。", "跟了，亮牌。", "跟注。", "我想看你的牌。"},
			raise: []string{"加注。", "小加一下。"},
		},
	},
	"tag": {
		Name: "tag", Aggression: 0.6, Tightness: 0.6, BluffFreq: 0.18,
		chatEN: chatPool{
			fold:  []string{"Fold.", "Not this time.", "I'm out."},
			check: []string{"Check.", "Checking here."},
			call:  []string{"Call.", "Good price.", "Pot odds say call."},
			raise: []string{"Raise.", "Value bet.", "I like my hand.", "Raising."},
		},
		chatZH: chatPool{
			fold:  []string{"弃牌。", "这次不了。", "我退了。"},
			check: []string{"过牌。", "过。"},
			call:  []string{"跟注。", "价格不错。", "赔率合适，跟。"},
			raise: []string{"加注。", "价值下注。", "我喜欢我的牌。", "加。"},
		},
	},
}

func (p Personality) chat(rand *rand.Rand, action holdem.ActionKind, locale string) string {
	pool := p.chatEN
	if locale == "zh" {
		pool = p.chatZH
	}
	var lines []string
	switch action {
	case holdem.ACTION_FOLD:
		lines = pool.fold
	case holdem.ACTION_CHECK:
		lines = pool.check
	case holdem.ACTION_CALL:
		lines = pool.call
	case holdem.ACTION_RAISE:
		lines = pool.raise
	}
	if len(lines) == 0 {
		return "..."
	}
	return random.Pick(rand, lines)
}

// RuleBasedStrategy is a fast heuristic player that never calls an LLM.
// Noise on the strength estimate keeps its play from being deterministic.
type RuleBasedStrategy struct {
	p   Personality
	log zerolog.Logger

	mu   sync.Mutex // guards rand; Decide may run concurrently
	rand *rand.Rand
}

func NewRuleBasedStrategy(personality string, rand *rand.Rand, log zerolog.Logger) *RuleBasedStrategy {
	p, ok := Personalities[personality]
	if !ok {
		p = Personalities["shark"]
	}
	return &RuleBasedStrategy{
		p:    p,
		rand: rand,
		log:  log.With().Str("strategy", "rule-based").Str("personality", p.Name).Logger(),
	}
}

func (h *RuleBasedStrategy) Decide(ctx context.Context, view *holdem.GameView, seatID int) (Decision, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	me := view.Me(seatID)
	if me == nil || !me.IsActive {
		h.log.Warn().Int("seat", seatID).Msg("seat not found or inactive, folding")
		return Decision{Action: holdem.ACTION_FOLD, Thought: "Not active", Chat: "Fold."}, nil
	}

	toCall := view.ToCall(seatID)
	strength := h.assessStrength(me.Hand, view.CommunityCards, view.State)
	noiseRange := noiseBase + (1.0-h.p.Tightness)*noiseLooseFactor
	strength += h.rand.Float64()*2*noiseRange - noiseRange
	strength = min(1.0, max(0.0, strength))

	h.log.Debug().
		Int("seat", seatID).
		Str("street", string(view.State)).
		Float64("strength", strength).
		Int("to_call", toCall).
		Msg("assessed hand")

	return h.makeDecision(strength, toCall, view.MinRaise, me.Chips, view.CurrentBet, view.Pot, view.Locale), nil
}

func (h *RuleBasedStrategy) assessStrength(hand, community []holdem.Card, street holdem.Street) float64 {
	if street == holdem.STREET_PREFLOP {
		return preflopStrength(hand)
	}
	all := holdem.ConcatCards(hand, community)
	if len(all) >= 5 {
		rank := holdem.EvaluateHandRank(all)
		return float64(rank[0]-1) / 9.0
	}
	return 0.3
}

func preflopStrength(hand []holdem.Card) float64 {
	if len(hand) < 2 {
		return 0.25
	}
	r1, r2 := int(hand[0].Rank), int(hand[1].Rank)
	if r1 < r2 {
		r1, r2 = r2, r1
	}
	suited := hand[0].Suit == hand[1].Suit

	switch {
	case r1 >= 12 && r2 >= 12:
		return 0.92 // QQ+ and big broadways
	case r1 == 14 && r2 == 13:
		return 0.85 // AK
	case r1 == 14 && r2 >= 11:
		return 0.75 // AQ/AJ
	case r1 >= 10 && r2 >= 10:
		return 0.72 // TT-JJ and broadway combos
	case r1 == 9 && r2 == 9:
		return 0.65
	case r1 >= 12 && suited:
		return 0.60
	case r1 == 14:
		return 0.55
	case r1 >= 11 && r2 >= 9:
		return 0.50
	case suited && r1 >= 9:
		return 0.45
	case r1 == r2:
		return 0.42 // low pocket pairs
	case suited:
		return 0.35
	case r1 >= 10:
		return 0.32
	}
	return 0.25
}

func (h *RuleBasedStrategy) makeDecision(strength float64, toCall, minRaise, chips, currentBet, pot int, locale string) Decision {
	p := h.p

	// Higher aggression lowers the thresholds, looser play raises fold
	// resistance.
	betThreshold := 0.70 - p.Aggression*0.18
	raiseThreshold := 0.75 - p.Aggression*0.12
	foldThreshold := 0.35 - p.Aggression*0.12 - (1.0-p.Tightness)*0.08

	if chips <= 0 {
		return Decision{Action: holdem.ACTION_FOLD, Thought: "No chips", Chat: p.chat(h.rand, holdem.ACTION_FOLD, locale)}
	}

	if toCall == 0 {
		if strength > betThreshold && chips >= minRaise {
			amount := h.sizeBet(strength, pot, minRaise, chips)
			return Decision{
				Action: holdem.ACTION_RAISE, Amount: amount,
				Thought: fmt.Sprintf("[%s] Value bet (str=%.2f)", p.Name, strength),
				Chat:    p.chat(h.rand, holdem.ACTION_RAISE, locale),
			}
		}
		if strength < weakBluffThreshold && h.rand.Float64() < p.BluffFreq {
			bluff := max(minRaise, int(float64(pot)*bluffBetFrac))
			bluff = min(bluff, chips)
			if bluff >= minRaise {
				return Decision{
					Action: holdem.ACTION_RAISE, Amount: bluff,
					Thought: fmt.Sprintf("[%s] Bluff (str=%.2f)", p.Name, strength),
					Chat:    p.chat(h.rand, holdem.ACTION_RAISE, locale),
				}
			}
		}
		return Decision{
			Action:  holdem.ACTION_CHECK,
			Thought: fmt.Sprintf("[%s] Check (str=%.2f)", p.Name, strength),
			Chat:    p.chat(h.rand, holdem.ACTION_CHECK, locale),
		}
	}

	potOdds := float64(toCall) / float64(toCall+max(1, minRaise))

	if strength > potOdds+0.12 && strength > raiseThreshold && chips >= currentBet+minRaise {
		amount := h.sizeBet(strength, pot, minRaise, chips)
		return Decision{
			Action: holdem.ACTION_RAISE, Amount: amount,
			Thought: fmt.Sprintf("[%s] Value raise (str=%.2f)", p.Name, strength),
			Chat:    p.chat(h.rand, holdem.ACTION_RAISE, locale),
		}
	}

	if strength > potOdds+0.10 {
		return Decision{
			Action:  holdem.ACTION_CALL,
			Thought: fmt.Sprintf("[%s] Good odds call (str=%.2f > po=%.2f)", p.Name, strength, potOdds),
			Chat:    p.chat(h.rand, holdem.ACTION_CALL, locale),
		}
	}

	if strength > foldThreshold {
		return Decision{
			Action:  holdem.ACTION_CALL,
			Thought: fmt.Sprintf("[%s] Marginal call (str=%.2f)", p.Name, strength),
			Chat:    p.chat(h.rand, holdem.ACTION_CALL, locale),
		}
	}

	if h.rand.Float64() < p.BluffFreq*bluffRaiseFreqMult && chips >= currentBet+minRaise {
		bluff := max(minRaise, int(float64(pot)*bluffRaiseFrac))
		bluff = min(bluff, chips)
		return Decision{
			Action: holdem.ACTION_RAISE, Amount: bluff,
			Thought: fmt.Sprintf("[%s] Bluff raise (str=%.2f)", p.Name, strength),
			Chat:    p.chat(h.rand, holdem.ACTION_RAISE, locale),
		}
	}

	// Calling stations rarely fold even when weak.
	if p.Tightness < stationTightness && p.Aggression < stationAggro && h.rand.Float64() < stationCallProb {
		return Decision{
			Action:  holdem.ACTION_CALL,
			Thought: fmt.Sprintf("[%s] Stubborn call (str=%.2f)", p.Name, strength),
			Chat:    p.chat(h.rand, holdem.ACTION_CALL, locale),
		}
	}

	return Decision{
		Action:  holdem.ACTION_FOLD,
		Thought: fmt.Sprintf("[%s] Fold (str=%.2f)", p.Name, strength),
		Chat:    p.chat(h.rand, holdem.ACTION_FOLD, locale),
	}
}

// sizeBet scales pot fraction by strength tier and aggression, with jitter
// so sizing is not robotic.
func (h *RuleBasedStrategy) sizeBet(strength float64, pot, minRaise, chips int) int {
	p := h.p
	var frac float64
	switch {
	case strength > sizeStrongThreshold:
		frac = sizeStrongFracBase + p.Aggression*sizeStrongFracAggr
	case strength > sizeMediumThreshold:
		frac = sizeMediumFracBase + p.Aggression*sizeMediumFracAggr
	default:
		frac = sizeWeakFracBase + p.Aggression*sizeWeakFracAggr
	}

	amount := max(minRaise, int(float64(pot)*frac))
	jitter := betJitterLo + h.rand.Float64()*(betJitterHi-betJitterLo)
	amount = int(float64(amount) * jitter)
	return max(minRaise, min(amount, chips))
}
