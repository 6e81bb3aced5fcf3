package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cyberholdem/holdem"
)

const coachSystemPrompt = "你是一位德州扑克教练，为人类玩家分析当前局面并给出建议。\n" +
	"你必须严格按照以下 JSON 格式返回，不要包含任何其他内容：\n" +
	`{"recommendation": "FOLD|CHECK|CALL|RAISE", "amount": 0, "body": "详细分析"}` + "\n" +
	"amount 仅在 recommendation 为 RAISE 时有意义。"

var validRecommendations = map[string]struct{}{
	"FOLD": {}, "CHECK": {}, "CALL": {}, "RAISE": {},
}

// LLMCoach asks the active chat model for advice while keeping the GTO
// coach's numeric stats panel. Any failure along the LLM path returns the
// GTO analysis unchanged.
type LLMCoach struct {
	client   ChatClient
	fallback *GTOCoach
	timeout  time.Duration
	log      zerolog.Logger
}

func NewLLMCoach(client ChatClient, fallback *GTOCoach, timeout time.Duration, log zerolog.Logger) *LLMCoach {
	return &LLMCoach{
		client:   client,
		fallback: fallback,
		timeout:  timeout,
		log:      log.With().Str("coach", "llm").Logger(),
	}
}

type coachReply struct {
	Recommendation string `json:"recommendation"`
	Amount         int    `json:"amount"`
	Body           string `json:"body"`
}

func (h *LLMCoach) Analyze(ctx context.Context, view *holdem.GameView, seatID int) Advice {
	base := h.fallback.Analyze(ctx, view, seatID)
	me := view.Me(seatID)
	if me == nil || len(me.Hand) < 2 {
		return base
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	raw, err := h.client.Chat(ctx, coachSystemPrompt, spotSummary(view, seatID)+"请为我分析局面并给出建议。")
	if err != nil {
		h.log.Warn().Err(err).Msg("llm coach call failed, using gto analysis")
		return base
	}
	reply, err := extractCoachReply(raw)
	if err != nil {
		h.log.Warn().Err(err).Msg("llm coach reply rejected, using gto analysis")
		return base
	}

	advice := base
	advice.Recommendation = reply.Recommendation
	advice.Body = reply.Body
	advice.RecommendedAmount = nil
	if reply.Recommendation == "RAISE" {
		amount := reply.Amount
		amount = max(amount, view.CurrentBet+view.MinRaise)
		amount = min(amount, me.Chips+me.StreetBet)
		advice.RecommendedAmount = &amount
	}
	// The stats panel stays numeric; only the recommendation entry follows
	// the model.
	advice.Stats = append([]AdviceStat(nil), base.Stats...)
	for i := range advice.Stats {
		if advice.Stats[i].Label == "推荐" {
			advice.Stats[i].Value = reply.Recommendation
			advice.Stats[i].Quality = recQuality(reply.Recommendation)
		}
	}
	return advice
}

// extractCoachReply mirrors the bot-side extraction: first decodable object
// carrying a whitelisted recommendation and a non-empty body wins, anything
// else fails closed.
func extractCoachReply(raw string) (coachReply, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		var reply coachReply
		if err := dec.Decode(&reply); err != nil {
			continue
		}
		rec := strings.ToUpper(strings.TrimSpace(reply.Recommendation))
		if _, ok := validRecommendations[rec]; !ok {
			continue
		}
		if strings.TrimSpace(reply.Body) == "" {
			continue
		}
		reply.Recommendation = rec
		return reply, nil
	}
	return coachReply{}, fmt.Errorf("no advice object found in response (%d chars)", len(raw))
}
