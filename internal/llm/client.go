package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Message is one entry of a chat-completion context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Options select the model and shape of a completion call.
type Options struct {
	Model        string
	Temperature  float64
	JSONResponse bool
}

// ProviderError wraps any failure of the completion backend: network,
// timeout, non-2xx status, or an unusable response body.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return "llm provider: " + e.Message + ": " + e.Err.Error()
	}
	return "llm provider: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Complete sends the message context to the model and returns the
// generated text. Every failure comes back as a *ProviderError.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	payload := chatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
	}
	if opts.JSONResponse {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", &ProviderError{Message: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", &ProviderError{Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Message: "completion request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{Message: fmt.Sprintf("completion failed with status %s", resp.Status)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &ProviderError{Message: "failed to decode response", Err: err}
	}
	if len(chatResp.Choices) == 0 {
		return "", &ProviderError{Message: "response contained no choices"}
	}
	return chatResp.Choices[0].Message.Content, nil
}
