package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
)

// ErrNoChoices is returned when a 2xx reply carries no message.
var ErrNoChoices = errors.New("no choices in openai response")

// Generate implements llm.Generator with one chat completion request.
func (c *Client) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	start := time.Now()
	log := common.LoggerFromContext(ctx, c.logger)
	if common.RequestIDFromContext(ctx) == "" {
		// CLI callers carry no request id
		log = log.With("req_id", uuid.NewString())
	}

	log.Info("llm.generate.start",
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"json_mode", p.JSONMode,
		"prompt_len", len(p.System)+len(p.User),
	)

	req := goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: p.System},
			{Role: goopenai.ChatMessageRoleUser, Content: p.User},
		},
	}
	if p.JSONMode {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		serr := statusError(err)
		log.Error("llm.generate.http_error",
			"error", serr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", serr
	}
	if len(resp.Choices) == 0 {
		log.Error("llm.generate.no_choices",
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", ErrNoChoices
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Info("llm.generate.ok",
		"reply_len", len(content),
		"finish_reason", resp.Choices[0].FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// statusError lifts provider errors that carry an HTTP status into *llm.StatusError
// so the retry policy can read it. Transport errors pass through unchanged.
func statusError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &llm.StatusError{StatusCode: apiErr.HTTPStatusCode, Detail: apiErr.Message, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.StatusError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return fmt.Errorf("openai request: %w", err)
}
