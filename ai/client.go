package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ChatClient is the unified LLM calling interface.
type ChatClient interface {
	// Chat sends one system+user exchange and returns the raw completion.
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// HealthCheck reports whether the service is reachable.
	HealthCheck(ctx context.Context) bool
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const healthTimeout = 5 * time.Second

// OllamaClient calls a locally running Ollama instance over its REST API.
type OllamaClient struct {
	baseURL string
	model   string
	http    *http.Client
	log     zerolog.Logger
}

func NewOllamaClient(baseURL, model string, timeout time.Duration, log zerolog.Logger) *OllamaClient {
	h := &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("llm", "ollama").Logger(),
	}
	h.log.Info().Str("url", h.baseURL).Str("model", h.model).Msg("ollama client initialised")
	return h
}

func (h *OllamaClient) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model": h.model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"stream": false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama chat: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Message chatMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama chat: decode response: %w", err)
	}
	h.log.Debug().Int("chars", len(parsed.Message.Content)).Msg("ollama response")
	return parsed.Message.Content, nil
}

func (h *OllamaClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := h.http.Do(req)
	if err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// OpenAICompatClient calls any OpenAI-compatible /chat/completions endpoint.
// Used for DashScope Qwen models.
type OpenAICompatClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     zerolog.Logger
}

func NewOpenAICompatClient(baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) *OpenAICompatClient {
	h := &OpenAICompatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("llm", "openai-compat").Str("model", model).Logger(),
	}
	if apiKey == "" {
		h.log.Warn().Msg("api key is not set; remote LLM calls will fail")
	}
	return h
}

func (h *OpenAICompatClient) complete(ctx context.Context, messages []chatMessage, maxTokens int) (string, error) {
	payload := map[string]any{
		"model":    h.model,
		"messages": messages,
	}
	if maxTokens > 0 {
		payload["max_tokens"] = maxTokens
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("chat completion: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (h *OpenAICompatClient) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content, err := h.complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, 0)
	if err != nil {
		h.log.Error().Err(err).Msg("chat failed")
		return "", err
	}
	h.log.Debug().Int("chars", len(content)).Msg("response")
	return content, nil
}

// HealthCheck issues a minimal one-token completion to verify the key.
func (h *OpenAICompatClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	_, err := h.complete(ctx, []chatMessage{{Role: "user", Content: "hi"}}, 1)
	if err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		return false
	}
	return true
}
