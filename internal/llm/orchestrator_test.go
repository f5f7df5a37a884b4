package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"lmg-backend/pkg/api"
)

type fakeCall struct {
	model    string
	messages []llms.MessageContent
}

// fakeGenerator answers per model identifier and records every call.
type fakeGenerator struct {
	replies map[string]string
	errs    map[string]error
	calls   []fakeCall
	onCall  func()
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	f.calls = append(f.calls, fakeCall{model: opts.Model, messages: messages})
	if f.onCall != nil {
		f.onCall()
	}

	if err, ok := f.errs[opts.Model]; ok {
		return nil, err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.replies[opts.Model]}},
	}, nil
}

func newTestOrchestrator(client ContentGenerator) *Orchestrator {
	o := NewOrchestrator(client)
	o.sleep = func(time.Duration) {}
	return o
}

func TestPlanFor(t *testing.T) {
	assert.Equal(t, textPlan, PlanFor(false, false))
	assert.Equal(t, filePlan, PlanFor(true, false))
	assert.Equal(t, pdfPlan, PlanFor(true, true))
}

func TestMaxRequestBudgetCoversSlowestPlan(t *testing.T) {
	// two full passes over the PDF plan plus the backoff in between
	assert.Equal(t, 151*time.Second, MaxRequestBudget())
}

func TestGenerateFirstModelSucceeds(t *testing.T) {
	fake := &fakeGenerator{replies: map[string]string{textPlan[0].Model: "hallo"}}
	o := newTestOrchestrator(fake)

	reply, err := o.Generate(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hallo", reply)
	assert.Len(t, fake.calls, 1)
}

func TestGenerateFallsBackAfterTimeout(t *testing.T) {
	fake := &fakeGenerator{
		errs:    map[string]error{textPlan[0].Model: context.DeadlineExceeded},
		replies: map[string]string{textPlan[1].Model: "vom zweiten modell"},
	}
	o := newTestOrchestrator(fake)

	reply, err := o.Generate(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "vom zweiten modell", reply)
	assert.Equal(t, textPlan[0].Model, fake.calls[0].model)
	assert.Equal(t, textPlan[1].Model, fake.calls[1].model)
}

func TestGenerateAllModelsExhausted(t *testing.T) {
	fake := &fakeGenerator{errs: map[string]error{
		textPlan[0].Model: errors.New("boom"),
		textPlan[1].Model: errors.New("boom"),
	}}
	o := newTestOrchestrator(fake)

	_, err := o.Generate(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrAllModelsExhausted)
	// no file: a single pass over the plan
	assert.Len(t, fake.calls, len(textPlan))
}

func TestGenerateRetriesWithBackoffWhenFileAttached(t *testing.T) {
	errs := map[string]error{}
	for _, attempt := range filePlan {
		errs[attempt.Model] = errors.New("boom")
	}
	fake := &fakeGenerator{errs: errs}

	var slept []time.Duration
	o := NewOrchestrator(fake)
	o.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := o.Generate(context.Background(), Request{
		Message: "hi",
		File:    &Attachment{MIMEType: "image/png", Data: []byte{1}},
	})
	assert.ErrorIs(t, err, ErrAllModelsExhausted)
	assert.Len(t, fake.calls, 2*len(filePlan))
	assert.Equal(t, []time.Duration{time.Second}, slept)
}

func TestGenerateStopsWhenContextAlreadyCanceled(t *testing.T) {
	fake := &fakeGenerator{replies: map[string]string{textPlan[0].Model: "unerreichbar"}}

	var slept []time.Duration
	o := NewOrchestrator(fake)
	o.sleep = func(d time.Duration) { slept = append(slept, d) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Generate(ctx, Request{
		Message: "hi",
		File:    &Attachment{MIMEType: "image/png", Data: []byte{1}},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.calls)
	assert.Empty(t, slept)
}

func TestGenerateStopsMidPlanOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	errs := map[string]error{}
	for _, attempt := range filePlan {
		errs[attempt.Model] = context.Canceled
	}
	fake := &fakeGenerator{errs: errs}
	// the request is canceled while the first model call is in flight
	fake.onCall = cancel

	var slept []time.Duration
	o := NewOrchestrator(fake)
	o.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := o.Generate(ctx, Request{
		Message: "hi",
		File:    &Attachment{MIMEType: "image/png", Data: []byte{1}},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fake.calls, 1)
	assert.Empty(t, slept)
}

func TestGenerateStripsPlaceholders(t *testing.T) {
	fake := &fakeGenerator{replies: map[string]string{
		textPlan[0].Model: "Ergebnis @@MATH_0@@ ist richtig @@CODE_12@@",
	}}
	o := newTestOrchestrator(fake)

	reply, err := o.Generate(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Ergebnis  ist richtig ", reply)
}

func TestGenerateConversationLayout(t *testing.T) {
	fake := &fakeGenerator{replies: map[string]string{textPlan[0].Model: "ok"}}
	o := newTestOrchestrator(fake)

	_, err := o.Generate(context.Background(), Request{
		SystemPrompt:   "SYSTEM",
		Acknowledgment: "ACK",
		History: []api.ChatMessage{
			{Role: "user", Content: "erste frage"},
			{Role: "assistant", Content: "erste antwort"},
		},
		Message: "neue frage",
	})
	require.NoError(t, err)

	messages := fake.calls[0].messages
	require.Len(t, messages, 5)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[2].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, messages[3].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[4].Role)
}

func TestGenerateAttachesFileToUserTurn(t *testing.T) {
	fake := &fakeGenerator{replies: map[string]string{pdfPlan[0].Model: "ok"}}
	o := newTestOrchestrator(fake)

	_, err := o.Generate(context.Background(), Request{
		Message: "was steht in der datei",
		File:    &Attachment{MIMEType: "application/pdf", Data: []byte("%PDF")},
	})
	require.NoError(t, err)

	messages := fake.calls[0].messages
	last := messages[len(messages)-1]
	require.Len(t, last.Parts, 2)
	binary, ok := last.Parts[1].(llms.BinaryContent)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", binary.MIMEType)
}
