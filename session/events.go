package session

type EventType string

const (
	EVENT_GAME_STATE       = EventType("game_state")
	EVENT_PLAYER_ACTED     = EventType("player_acted")
	EVENT_AI_THINKING      = EventType("ai_thinking")
	EVENT_AI_THINKING_DONE = EventType("ai_thinking_done")
	EVENT_AI_THOUGHT       = EventType("ai_thought")
	EVENT_AI_ADVICE        = EventType("ai_advice")
	EVENT_LLM_STATUS       = EventType("llm_status")
	EVENT_ERROR            = EventType("error")
	EVENT_GAME_OVER        = EventType("game_over")
)

// Broadcaster pushes outbound events to whoever watches the session.
// Implementations must be safe for concurrent use.
type Broadcaster interface {
	Emit(event EventType, payload any)
}

type PlayerActedEvent struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Action     string `json:"action"`
	Amount     int    `json:"amount"`
}

type ThinkingEvent struct {
	PlayerID int `json:"player_id"`
}

type AIThoughtEvent struct {
	PlayerID int    `json:"player_id"`
	Thought  string `json:"thought"`
	Chat     string `json:"chat"`
}

type LLMStatusEvent struct {
	Status string `json:"status"` // online | offline
}

type ErrorEvent struct {
	Message string `json:"message"`
}

type GameOverEvent struct {
	Reason     string `json:"reason"`
	FinalChips int    `json:"final_chips"`
}
