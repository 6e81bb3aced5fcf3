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

const botSystemPrompt = "你是一个德州扑克 AI 玩家。你的风格是：理性、数学导向、偶尔诈唬。\n" +
	"你必须严格按照以下 JSON 格式返回决策，不要包含任何其他内容：\n" +
	`{"action": "fold|call|raise|check", "amount": 0, "thought": "简短推理", "chat_message": "对其他玩家说的话"}` + "\n" +
	"amount 仅在 action 为 raise 时有意义。"

var validLLMActions = map[holdem.ActionKind]struct{}{
	holdem.ACTION_FOLD:  {},
	holdem.ACTION_CHECK: {},
	holdem.ACTION_CALL:  {},
	holdem.ACTION_RAISE: {},
}

// LLMStrategy plays rule-based preflop for speed and asks an LLM postflop.
// Any failure along the LLM path falls back to the rule-based decision.
type LLMStrategy struct {
	client   ChatClient
	fallback *RuleBasedStrategy
	timeout  time.Duration
	log      zerolog.Logger
}

func NewLLMStrategy(client ChatClient, fallback *RuleBasedStrategy, timeout time.Duration, log zerolog.Logger) *LLMStrategy {
	return &LLMStrategy{
		client:   client,
		fallback: fallback,
		timeout:  timeout,
		log:      log.With().Str("strategy", "llm").Logger(),
	}
}

func (h *LLMStrategy) Client() ChatClient {
	return h.client
}

func (h *LLMStrategy) Decide(ctx context.Context, view *holdem.GameView, seatID int) (Decision, error) {
	if view.State == holdem.STREET_PREFLOP {
		return h.fallback.Decide(ctx, view, seatID)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	raw, err := h.client.Chat(ctx, botSystemPrompt, buildPrompt(view, seatID))
	if err != nil {
		h.log.Warn().Err(err).Int("seat", seatID).Msg("llm call failed, falling back to rule-based")
		return h.fallback.Decide(ctx, view, seatID)
	}

	decision, err := parseLLMResponse(raw, view, seatID)
	if err != nil {
		h.log.Warn().Err(err).Int("seat", seatID).Msg("llm response rejected, falling back to rule-based")
		return h.fallback.Decide(ctx, view, seatID)
	}
	h.log.Debug().Int("seat", seatID).Str("action", string(decision.Action)).Msg("llm decision")
	return decision, nil
}

func buildPrompt(view *holdem.GameView, seatID int) string {
	return spotSummary(view, seatID) + "请给出你的决策。"
}

// spotSummary renders the seat's situation for LLM prompts.
func spotSummary(view *holdem.GameView, seatID int) string {
	me := view.Me(seatID)
	hand := make([]string, 0, 2)
	for _, c := range me.Hand {
		hand = append(hand, c.String())
	}
	board := make([]string, 0, len(view.CommunityCards))
	for _, c := range view.CommunityCards {
		board = append(board, c.String())
	}
	return fmt.Sprintf(
		"当前局面：\n- 街道: %s\n- 我的手牌: %s\n- 公共牌: %s\n- 底池: %d\n- 需要跟注: %d\n- 我的筹码: %d\n- 最小加注: %d\n",
		view.State,
		strings.Join(hand, " "),
		strings.Join(board, " "),
		view.Pot,
		view.ToCall(seatID),
		me.Chips,
		view.MinRaise,
	)
}

type llmReply struct {
	Action  string `json:"action"`
	Amount  int    `json:"amount"`
	Thought string `json:"thought"`
	Chat    string `json:"chat_message"`
}

// extractJSONObject pulls the first decision object out of the raw
// completion. Decoding stops at the object's closing brace, so trailing
// prose is ignored; decodable objects without an action field (echoed state,
// nested metadata) are skipped; anything that never yields one fails closed.
func extractJSONObject(raw string) (llmReply, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		var reply llmReply
		if err := dec.Decode(&reply); err != nil {
			continue
		}
		if strings.TrimSpace(reply.Action) == "" {
			continue
		}
		return reply, nil
	}
	return llmReply{}, fmt.Errorf("no decision object found in response (%d chars)", len(raw))
}

func parseLLMResponse(raw string, view *holdem.GameView, seatID int) (Decision, error) {
	reply, err := extractJSONObject(raw)
	if err != nil {
		return Decision{}, err
	}

	action := holdem.ActionKind(strings.ToLower(strings.TrimSpace(reply.Action)))
	if _, ok := validLLMActions[action]; !ok {
		return Decision{}, fmt.Errorf("invalid action %q", reply.Action)
	}

	amount := reply.Amount
	if action == holdem.ACTION_RAISE {
		me := view.Me(seatID)
		minTotal := view.CurrentBet + view.MinRaise
		maxTotal := me.Chips + me.StreetBet
		amount = max(amount, minTotal)
		amount = min(amount, maxTotal)
	} else {
		amount = 0
	}

	return Decision{
		Action:  action,
		Amount:  amount,
		Thought: reply.Thought,
		Chat:    reply.Chat,
	}, nil
}
