package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"gosheet/internal/errors"
	"gosheet/ports"

	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds LLM adapter configuration
type Config struct {
	Model       string        // e.g., "gpt-4o-mini"
	APIKey      string        // OpenAI API key
	BaseURL     string        // Optional override (default: https://api.openai.com/v1)
	Temperature float64       // 0.0-2.0
	MaxTokens   int           // 0 leaves the provider default
	Timeout     time.Duration // Whole-request timeout, stream included
}

// NewClient creates a streaming chat client based on config
func NewClient(config Config) (*OpenAIClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, errors.Unavailable("missing OpenAI API key")
	}
	if strings.TrimSpace(config.Model) == "" {
		return nil, errors.ConfigInvalid("missing model")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIClient{
		APIKey:      config.APIKey,
		BaseURL:     baseURL,
		Model:       config.Model,
		Timeout:     config.Timeout,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
		httpClient:  &http.Client{Timeout: config.Timeout},
	}, nil
}

// OpenAIClient implements ports.ChatClient against a Chat Completions endpoint
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int

	httpClient *http.Client
}

var _ ports.ChatClient = (*OpenAIClient)(nil)

type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []ports.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Stream      bool                `json:"stream"`
}

// StreamChat posts the conversation with stream enabled and relays each
// content delta to onDelta as it is read off the event stream.
func (c *OpenAIClient) StreamChat(ctx context.Context, messages []ports.ChatMessage, onDelta func(string)) (string, error) {
	if len(messages) == 0 {
		return "", errors.InvalidInput("no messages to send")
	}

	raw, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	client := c.httpClient
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", errors.ExternalServiceError("openai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.ExternalServiceError("openai",
			fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	text, err := readStream(resp.Body, onDelta)
	if err != nil {
		return text, errors.ExternalServiceError("openai", err)
	}

	log.Printf("[LLM] Streamed %d chars from %s in %v", len(text), c.Model, time.Since(start).Round(time.Millisecond))
	return text, nil
}

// readStream consumes "data:" lines until [DONE] or EOF. Lines that are not
// valid JSON are skipped.
func readStream(r io.Reader, onDelta func(string)) (string, error) {
	var full strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}
		if !gjson.Valid(payload) {
			log.Printf("[LLM] Skipping malformed stream line: %.80s", payload)
			continue
		}
		if msg := gjson.Get(payload, "error.message"); msg.Exists() {
			return full.String(), fmt.Errorf("stream error: %s", msg.String())
		}

		delta := gjson.Get(payload, "choices.0.delta.content").String()
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), err
	}
	return full.String(), nil
}

// MockLLMClient is a mock chat client for testing
type MockLLMClient struct {
	Chunks []string // Streamed in order
	Error  error    // Returned after the chunks are streamed
	Delay  time.Duration

	Calls [][]ports.ChatMessage
}

var _ ports.ChatClient = (*MockLLMClient)(nil)

func (m *MockLLMClient) StreamChat(ctx context.Context, messages []ports.ChatMessage, onDelta func(string)) (string, error) {
	m.Calls = append(m.Calls, append([]ports.ChatMessage(nil), messages...))

	var full strings.Builder
	for _, chunk := range m.Chunks {
		if m.Delay > 0 {
			select {
			case <-time.After(m.Delay):
			case <-ctx.Done():
				return full.String(), ctx.Err()
			}
		}
		if err := ctx.Err(); err != nil {
			return full.String(), err
		}
		full.WriteString(chunk)
		if onDelta != nil {
			onDelta(chunk)
		}
	}
	if m.Error != nil {
		return full.String(), m.Error
	}
	return full.String(), nil
}
