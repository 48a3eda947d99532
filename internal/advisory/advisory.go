// Package advisory obtains governance insights for suspicious stories from
// an LLM. Every failure mode degrades to the neutral insight so the scoring
// pipeline stays total.
package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"storyscope/internal/assess"
)

const (
	defaultModel = "gemini-2.0-flash"
	maxAttempts  = 3
	retryBase    = 300 * time.Millisecond
)

const systemPrompt = `You are a strict enterprise QA governance auditor.

Analyze the following user story and its test context for blind spots the
rule engine cannot see.

Return ONLY JSON in this format:

{
  "requirement_ambiguity": true/false,
  "missing_validation_dimensions": ["list of missing validation types"],
  "confidence": float (0-1)
}

Story data follows as JSON.`

// wireInsight is the model's JSON response shape.
type wireInsight struct {
	RequirementAmbiguity        bool     `json:"requirement_ambiguity"`
	MissingValidationDimensions []string `json:"missing_validation_dimensions"`
	Confidence                  float64  `json:"confidence"`
}

// Client wraps the genai client for insight generation.
type Client struct {
	cli    *genai.Client
	model  string
	logger *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an advisory client. The API key is read from the
// environment by the genai SDK when apiKey is empty.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("advisory: create client: %w", err)
	}

	c := &Client{cli: cli, model: defaultModel, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Review implements assess.AdvisoryFunc: it sends the story payload to the
// model and returns the normalized insight. Any transport, decode, or
// content failure returns the neutral insight with confidence 0; the
// pipeline's confidence gate then ignores it.
func (c *Client) Review(ctx context.Context, payload assess.AdvisoryPayload) assess.Insight {
	raw, err := c.generateJSON(ctx, payload)
	if err != nil {
		c.logger.WarnContext(ctx, "advisory review failed, using neutral insight", "error", err)
		return assess.Insight{}
	}
	return Normalize(raw)
}

func (c *Client) generateJSON(ctx context.Context, payload any) (json.RawMessage, error) {
	in, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	full := systemPrompt + "\n\n[STORY JSON]\n" + string(in)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBase * time.Duration(1<<(attempt-1))):
			}
		}

		resp, err := c.cli.Models.GenerateContent(ctx, c.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("empty model response")
			continue
		}
		return json.RawMessage(resp.Candidates[0].Content.Parts[0].Text), nil
	}
	return nil, lastErr
}

// Normalize decodes a raw insight document into the pipeline's insight type.
// Malformed JSON, missing fields, and out-of-range values all degrade toward
// the neutral insight instead of failing.
func Normalize(raw json.RawMessage) assess.Insight {
	var wire wireInsight
	if err := json.Unmarshal(raw, &wire); err != nil {
		return assess.Insight{}
	}

	conf := wire.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	dims := make([]string, 0, len(wire.MissingValidationDimensions))
	for _, d := range wire.MissingValidationDimensions {
		if d != "" {
			dims = append(dims, d)
		}
	}
	if len(dims) == 0 {
		dims = nil
	}

	return assess.Insight{
		RequirementAmbiguity:        wire.RequirementAmbiguity,
		MissingValidationDimensions: dims,
		Confidence:                  conf,
	}
}
