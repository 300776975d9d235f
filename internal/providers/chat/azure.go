package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"visualizer/internal/domain"
)

// SystemPrompt frames every /code request.
const SystemPrompt = "You are an expert software engineer."

const (
	defaultMaxCompletionTokens = 2048
	defaultTimeout             = 120 * time.Second
)

// Completer answers a single user message with a text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AzureOptions configures an Azure OpenAI deployment.
type AzureOptions struct {
	APIKey              string
	Endpoint            string
	APIVersion          string
	Deployment          string
	MaxCompletionTokens int
	HTTPClient          *http.Client
}

// AzureClient proxies chat completions to an Azure OpenAI deployment.
type AzureClient struct {
	client     *openai.Client
	deployment string
	maxTokens  int
}

// NewAzureClient validates the options and builds the underlying client.
func NewAzureClient(opts AzureOptions) (*AzureClient, error) {
	key := strings.TrimSpace(opts.APIKey)
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	deployment := strings.TrimSpace(opts.Deployment)
	if key == "" || endpoint == "" || deployment == "" {
		return nil, fmt.Errorf("azure openai: %w", domain.ErrMissingCredential)
	}
	cfg := openai.DefaultAzureConfig(key, endpoint)
	if v := strings.TrimSpace(opts.APIVersion); v != "" {
		cfg.APIVersion = v
	}
	cfg.AzureModelMapperFunc = func(string) string { return deployment }
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	} else {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	maxTokens := opts.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxCompletionTokens
	}
	return &AzureClient{
		client:     openai.NewClientWithConfig(cfg),
		deployment: deployment,
		maxTokens:  maxTokens,
	}, nil
}

// Complete implements Completer.
func (c *AzureClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", domain.ErrMissingCredential
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxCompletionTokens: c.maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &domain.UpstreamError{Kind: domain.ErrUpstreamFailure, Service: "azure-openai", Status: apiErr.HTTPStatusCode, Detail: apiErr.Message}
		}
		return "", fmt.Errorf("azure openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", &domain.UpstreamError{Kind: domain.ErrUpstreamFailure, Service: "azure-openai", Detail: "no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Completer = (*AzureClient)(nil)
