// Package ai wraps the AI gateway. The gateway speaks the OpenAI chat
// protocol, so the client is a thin layer over go-openai with the
// base URL pointed at the gateway
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/viper"
)

// ErrNoAPIKey is returned on every completion attempt until a gateway
// key is configured. The exact message is surfaced to clients
var ErrNoAPIKey = errors.New("LOVABLE_API_KEY is not configured")

// GatewayError carries the HTTP status the gateway answered with so
// handlers can map rate-limit and billing failures explicitly
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, e.Message)
}

// Completer is what the services depend on, so tests can swap the
// gateway out for a canned implementation
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	cli   *openai.Client
	model string
}

// NewClient builds a gateway client from the ai.* config values. A
// missing API key is not an error here, Complete reports it per call
func NewClient() *Client {
	key := viper.GetString("ai.api_key")
	if key == "" {
		return &Client{}
	}

	cfg := openai.DefaultConfig(key)
	if base := viper.GetString("ai.base_url"); base != "" {
		cfg.BaseURL = base
	}

	return &Client{
		cli:   openai.NewClientWithConfig(cfg),
		model: viper.GetString("ai.model"),
	}
}

// Complete sends a single user prompt and returns the text of the
// first choice. One call, no retries, failures fail the whole request
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cli == nil {
		return "", ErrNoAPIKey
	}

	resp, err := c.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &GatewayError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}

		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &GatewayError{Status: reqErr.HTTPStatusCode, Message: reqErr.Error()}
		}

		return "", fmt.Errorf("gateway request failed, %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("gateway returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// UserMessage translates an AI layer error into the message shown to
// clients. Empty string means the error isn't one of ours
func UserMessage(err error) string {
	if errors.Is(err, ErrNoAPIKey) {
		return ErrNoAPIKey.Error()
	}

	var gw *GatewayError
	if errors.As(err, &gw) {
		switch gw.Status {
		case http.StatusTooManyRequests:
			return "Rate limit exceeded, please try again later"
		case http.StatusPaymentRequired:
			return "AI credits exhausted, please add credits to your workspace"
		}

		return "AI gateway error"
	}

	return ""
}

// HTTPStatus picks the response code for an AI layer error. Only the
// rate-limit and billing statuses pass through, everything else is a
// plain internal error
func HTTPStatus(err error) int {
	var gw *GatewayError
	if errors.As(err, &gw) {
		switch gw.Status {
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return gw.Status
		}
	}

	return http.StatusInternalServerError
}
