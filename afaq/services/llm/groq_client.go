package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	httputils "afaq/afaq/utils/http"
	"afaq/afaq/utils/logging"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

var ErrMissingAPIKey = errors.New("groq api key is not configured")

type GroqClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewGroqClient returns a client pointing to Groq's OpenAI-compatible endpoint.
func NewGroqClient(apiKey string) *GroqClient {
	return &GroqClient{
		baseURL: DefaultGroqBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL points the client at another OpenAI-compatible server.
func (c *GroqClient) WithBaseURL(baseURL string) *GroqClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Run (non-streaming) chat completion
func (c *GroqClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "groq_service_run")()

	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	req.Stream = false

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)

	var resp struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := httputils.PostJSONWithAuth(ctx, c.http, url, c.apiKey, req, &resp); err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) > 0 {
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}
	return "", fmt.Errorf("no choices returned")
}
