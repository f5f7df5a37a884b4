// Package llm relays the assembled conversation to the Gemini provider,
// racing each call against its timeout and falling back across an ordered
// model plan before giving up.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/tmc/langchaingo/llms"

	"lmg-backend/pkg/api"
)

// ErrAllModelsExhausted is returned once every model in every attempt has
// failed. Callers surface it as a generic "system busy" condition; the
// underlying provider errors stay in the logs.
var ErrAllModelsExhausted = errors.New("all model attempts exhausted")

// ContentGenerator is the slice of the langchaingo client the orchestrator
// needs; tests substitute a fake.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

const (
	maxOutputTokens = 4000
	temperature     = 0.7
	backoffBase     = time.Second
)

// placeholderPattern matches the internal escaping tokens the widget uses
// while protecting math/code fragments. They must never reach the user.
var placeholderPattern = regexp.MustCompile(`@@(?:MATH|CODE)_\d+@@`)

type Attachment struct {
	MIMEType string
	Data     []byte
}

func (a *Attachment) isPDF() bool {
	return a != nil && a.MIMEType == "application/pdf"
}

type Request struct {
	SystemPrompt   string
	Acknowledgment string
	History        []api.ChatMessage
	Message        string
	File           *Attachment
}

type Orchestrator struct {
	client ContentGenerator
	// sleep is swappable so tests don't wait out real backoff intervals.
	sleep func(time.Duration)
}

func NewOrchestrator(client ContentGenerator) *Orchestrator {
	return &Orchestrator{client: client, sleep: time.Sleep}
}

// Generate runs the fallback state machine: for each attempt, try every model
// in the plan in order, each under its own timeout; first success wins.
// Failed attempts back off exponentially (1s, 2s, ...) before retrying.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (string, error) {
	messages := buildMessages(req)
	plan := PlanFor(req.File != nil, req.File.isPDF())
	attempts := attemptsFor(req.File != nil)

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 0 {
			o.sleep(backoffBase << (attempt - 1))
		}
		for _, candidate := range plan {
			reply, err := o.call(ctx, candidate, messages)
			if err != nil {
				// a canceled request is not a model failure; stop chasing
				// the rest of the plan
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				slog.Warn("model call failed, advancing in plan",
					"model", candidate.Model, "attempt", attempt+1, "error", err)
				continue
			}
			return o.clean(reply), nil
		}
	}

	return "", ErrAllModelsExhausted
}

func (o *Orchestrator) call(ctx context.Context, candidate ModelAttempt, messages []llms.MessageContent) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, candidate.Timeout)
	defer cancel()

	resp, err := o.client.GenerateContent(callCtx, messages,
		llms.WithModel(candidate.Model),
		llms.WithMaxTokens(maxOutputTokens),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// clean strips escaping placeholder tokens that must never appear in model
// output. Finding one means the downstream escaping step leaked, so both
// versions are logged for diagnosis.
func (o *Orchestrator) clean(reply string) string {
	if !placeholderPattern.MatchString(reply) {
		return reply
	}
	cleaned := placeholderPattern.ReplaceAllString(reply, "")
	slog.Warn("stripped placeholder tokens from model output",
		"original", reply, "cleaned", cleaned)
	return cleaned
}

// buildMessages lays out the conversation the way the provider expects it:
// the system instruction as a leading user turn, a canned acknowledgment from
// the model, the trailing history, then the new user turn (with the upload
// inlined as a binary part).
func buildMessages(req Request) []llms.MessageContent {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeAI, req.Acknowledgment),
	}

	for _, msg := range req.History {
		role := llms.ChatMessageTypeHuman
		if msg.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}

	userParts := []llms.ContentPart{llms.TextPart(req.Message)}
	if req.File != nil {
		userParts = append(userParts, llms.BinaryPart(req.File.MIMEType, req.File.Data))
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: userParts,
	})

	return messages
}
