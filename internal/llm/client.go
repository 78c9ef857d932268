// ABOUTME: OpenAI client implementing the enrichment collaborator contract
// ABOUTME: Produces a summary and weighted keywords for a code entity or document
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for enrichment completions
	DefaultChatModel = "gpt-4o-mini"
	// defaultRetryAfter is used when the provider gives no retry delay
	defaultRetryAfter = 30 * time.Second
)

// EnrichmentInput describes the entity or document to enrich
type EnrichmentInput struct {
	Kind       string // "entity" or "document"
	Name       string
	FilePath   string
	Language   string
	Content    string
	BudgetHint int // rough token budget for the generated summary
}

// EnrichmentResult is the structured output of one enrichment call
type EnrichmentResult struct {
	Summary  string
	Keywords []WeightedKeyword
}

// WeightedKeyword is one AI-assigned keyword with a relevance weight
type WeightedKeyword struct {
	Keyword string  `json:"keyword"`
	Weight  float64 `json:"weight"`
}

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey    string
	ChatModel string
	Timeout   time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("DEVCONTEXT_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	return &ClientConfig{
		APIKey:    apiKey,
		ChatModel: chatModel,
		Timeout:   30 * time.Second,
	}
}

// Client wraps the OpenAI API for enrichment calls.
// The client does not retry; retry policy belongs to the job queue.
type Client struct {
	client    *openai.Client
	chatModel string
	timeout   time.Duration
}

// NewClient creates an enrichment client with default configuration
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates an enrichment client with custom configuration
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &Client{
		client:    openai.NewClient(config.APIKey),
		chatModel: config.ChatModel,
		timeout:   config.Timeout,
	}, nil
}

const enrichSystemPrompt = `You are a code comprehension assistant. Given a source code entity or a project document, produce:
1. summary: a concise description of what it does and why it exists (2-4 sentences)
2. keywords: the most important terms and concepts, each with a weight from 0.0 to 1.0

Return ONLY a JSON object: {"summary": "...", "keywords": [{"keyword": "...", "weight": 0.9}]}. No additional text.`

// Enrich generates a summary and keywords for one entity or document.
// Failures are classified as RateLimitError or ProviderError.
func (c *Client) Enrich(ctx context.Context, input EnrichmentInput) (*EnrichmentResult, error) {
	userPrompt := fmt.Sprintf("Kind: %s\nName: %s\nFile: %s\nLanguage: %s\nSummary budget: about %d tokens\n\nContent:\n%s",
		input.Kind, input.Name, input.FilePath, input.Language, input.BudgetHint, input.Content)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enrichSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Message: "no completion choices returned"}
	}

	result, err := ParseEnrichmentResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &ProviderError{Message: "unparseable enrichment response", Err: err}
	}
	return result, nil
}

// classifyError maps OpenAI API failures onto the provider error taxonomy
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: defaultRetryAfter}
	}
	return &ProviderError{Message: "completion request failed", Err: err}
}
