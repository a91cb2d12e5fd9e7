package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/config"
	"github.com/pranjalekhande/paddock-ai/internal/metrics"
)

// Role constants for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one chat turn. Tool results carry the originating call ID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the function and carries its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition describes one callable function to the model.
type ToolDefinition struct {
	Type     string         `json:"type"`
	Function FunctionSchema `json:"function"`
}

// FunctionSchema is the JSON-schema description of a function.
type FunctionSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Completion is the assistant turn returned by ChatCompletion.
type Completion struct {
	Message          Message
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []Message        `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Client talks to an OpenAI-compatible API.
type Client struct {
	httpClient *retryablehttp.Client
	cfg        *config.OpenAIConfig
	logger     *logrus.Entry
}

// NewClient creates a chat and embedding client from configuration.
func NewClient(cfg *config.OpenAIConfig, baseLogger *logrus.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	return &Client{
		httpClient: retryClient,
		cfg:        cfg,
		logger:     baseLogger.WithField("component", "llm"),
	}
}

// ChatCompletion runs one chat completion request, optionally exposing tools.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, tools []ToolDefinition) (*Completion, error) {
	reqBody := chatRequest{
		Model:       c.cfg.ChatModel,
		Messages:    messages,
		Tools:       tools,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	start := time.Now()
	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return nil, err
	}
	metrics.RecordLLMRequestDuration(time.Since(start).Seconds())

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choice := resp.Choices[0]
	return &Completion{
		Message:          choice.Message,
		FinishReason:     choice.FinishReason,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// CompleteJSON runs a completion and extracts the JSON object from the reply,
// stripping markdown code fences when the model wraps its answer in them.
func (c *Client) CompleteJSON(ctx context.Context, messages []Message, out interface{}) error {
	completion, err := c.ChatCompletion(ctx, messages, nil)
	if err != nil {
		return err
	}

	payload, err := ExtractJSON(completion.Message.Content)
	if err != nil {
		c.logger.WithField("content_length", len(completion.Message.Content)).Warn("Completion carried no JSON payload")
		return err
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// post sends a JSON request to the provider and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthenticationFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
