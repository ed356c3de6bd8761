package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/metrics"
)

// DefaultMaxTags caps the number of tags kept from one generation.
const DefaultMaxTags = 8

const systemPrompt = `You turn a free-text request for a place to visit into short search tags.
Return lower-case single words or short phrases describing the kind of place, cuisine,
atmosphere and activities the user is looking for.
If the request is not about finding a place, or you cannot help with it, set
"unsupported" to true, explain why in "reason" and return an empty tag list.`

// Tagger generates place search tags using the OpenAI-compatible chat API.
type Tagger struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTags     int
	user        string
	provider    string
	logger      *zap.Logger
}

// Config holds the tag provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTags     int
	Timeout     time.Duration
	User        string
	Provider    string
	Logger      *zap.Logger
}

// NewTagger creates an OpenAI-compatible tag generator.
func NewTagger(cfg *Config) *Tagger {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	maxTags := cfg.MaxTags
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Tagger{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTags:     maxTags,
		user:        cfg.User,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// tagReply is the structured answer the model is asked to produce.
type tagReply struct {
	Tags        []string `json:"tags"`
	Unsupported bool     `json:"unsupported"`
	Reason      string   `json:"reason"`
}

var replySchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"tags": {
			Type:  jsonschema.Array,
			Items: &jsonschema.Definition{Type: jsonschema.String},
		},
		"unsupported": {Type: jsonschema.Boolean},
		"reason":      {Type: jsonschema.String},
	},
	Required:             []string{"tags", "unsupported", "reason"},
	AdditionalProperties: false,
}

// Generate implements domain.TagGenerator. Transport-level metrics are recorded here.
func (t *Tagger) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: t.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "place_tags",
				Schema: &replySchema,
				Strict: true,
			},
		},
		User: t.user,
	}

	start := time.Now()

	resp, err := t.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.TaggingRequestsTotal.WithLabelValues(t.provider, t.model, "error").Inc()
		return domain.Generation{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.TaggingRequestsTotal.WithLabelValues(t.provider, t.model, "error").Inc()
		return domain.Generation{}, fmt.Errorf("empty chat completion response: %w", domain.ErrTagProviderError)
	}

	metrics.TaggingRequestDuration.WithLabelValues(t.provider, t.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.TaggingTokensTotal.WithLabelValues(t.provider, t.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.TaggingTokensTotal.WithLabelValues(t.provider, t.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	gen, err := t.decode(resp.Choices[0])
	if err != nil {
		metrics.TaggingRequestsTotal.WithLabelValues(t.provider, t.model, "error").Inc()
		return domain.Generation{}, err
	}
	gen.PromptTokens = resp.Usage.PromptTokens
	gen.TotalTokens = resp.Usage.TotalTokens

	status := "ok"
	if gen.Refused() {
		status = "refused"
	}
	metrics.TaggingRequestsTotal.WithLabelValues(t.provider, t.model, status).Inc()

	return gen, nil
}

// decode turns a completion choice into a generation, recognising the three refusal shapes.
func (t *Tagger) decode(choice openai.ChatCompletionChoice) (domain.Generation, error) {
	msg := choice.Message

	if msg.Refusal != "" {
		return domain.Generation{Refusal: &domain.Refusal{
			Reason: msg.Refusal,
			Status: domain.RefusalStatusRefused,
		}}, nil
	}
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return domain.Generation{Refusal: &domain.Refusal{
			Reason: "the request was blocked by the content filter",
			Status: domain.RefusalStatusContentFilter,
		}}, nil
	}

	var reply tagReply
	if err := json.Unmarshal([]byte(msg.Content), &reply); err != nil {
		t.logger.Warn("Malformed tag reply",
			zap.String("provider", t.provider),
			zap.String("model", t.model),
			zap.Error(err),
		)
		return domain.Generation{}, fmt.Errorf("decode tag reply: %w", domain.ErrTagProviderError)
	}

	if reply.Unsupported {
		reason := strings.TrimSpace(reply.Reason)
		if reason == "" {
			reason = "the request is not about finding a place"
		}
		return domain.Generation{Refusal: &domain.Refusal{
			Reason: reason,
			Status: domain.RefusalStatusUnsupported,
		}}, nil
	}

	tags := domain.NormalizeTags(reply.Tags)
	if len(tags) > t.maxTags {
		tags = tags[:t.maxTags]
	}
	return domain.Generation{Tags: tags}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (t *Tagger) HealthCheck(ctx context.Context) error {
	if _, err := t.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrTagProviderError for the 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrTagProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("tagging API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("tagging API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("tagging API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("tagging request failed: %v: %w", err, wrap)
}

// extractDetail reads the "detail" field some OpenAI-compatible providers use for errors.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
