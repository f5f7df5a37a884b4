package api

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"lmg-backend/internal/classify"
	"lmg-backend/internal/docs"
	"lmg-backend/internal/llm"
	"lmg-backend/internal/prompt"
	"lmg-backend/pkg/api"
)

// historyWindow caps how much trailing conversation is relayed to the model.
const historyWindow = 10

const busyMessage = "Das System ist gerade stark ausgelastet. Bitte versuche es gleich noch einmal."

// Generator is the orchestrator seam; tests plug in a stub.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

type ChatService struct {
	apiKey    string
	fetcher   *docs.Fetcher
	generator Generator
}

func NewChatService(apiKey string, fetcher *docs.Fetcher, generator Generator) *ChatService {
	return &ChatService{
		apiKey:    apiKey,
		fetcher:   fetcher,
		generator: generator,
	}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Post("/api/chat", RestHandler(s.Chat))
}

func (s *ChatService) Chat(r *http.Request) (any, error) {
	if s.apiKey == "" {
		return nil, CodedErrorf(http.StatusInternalServerError,
			"Google API Key ist nicht konfiguriert. Bitte setze GOOGLE_API_KEY in der Umgebung.")
	}

	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" && req.File == nil {
		return nil, CodedErrorf(http.StatusBadRequest, "message is required")
	}

	ctx := r.Context()

	cls := classify.Classify(req.Message, req.History)
	grade, hasGrade := 0, false
	if cls.NeedsModules {
		grade, hasGrade = classify.GradeFromConversation(req.Message, req.History)
	}

	in := prompt.Input{
		Language:         classify.DetectLanguage(req.Message, req.History),
		ModulesRequested: cls.NeedsModules,
	}

	// The needed documents are fetched concurrently; each one settles to
	// text-or-absent on its own and a failed fetch never blocks the request.
	g, fetchCtx := errgroup.WithContext(ctx)
	if cls.NeedsModules && hasGrade {
		g.Go(func() error {
			in.ModuleOverview, _ = s.fetcher.ModuleOverview(fetchCtx, grade)
			return nil
		})
	}
	if cls.NeedsSchoolInfo {
		g.Go(func() error {
			in.SchoolInfo, _ = s.fetcher.SchoolInfo(fetchCtx)
			return nil
		})
	}
	if cls.NeedsCurriculum {
		g.Go(func() error {
			in.Curriculum, _ = s.fetcher.Curriculum(fetchCtx)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // fetch goroutines always return nil

	file := decodeUpload(req.File)
	in.HasFile = file != nil

	reply, err := s.generator.Generate(ctx, llm.Request{
		SystemPrompt:   prompt.BuildSystemPrompt(in),
		Acknowledgment: prompt.Acknowledgment,
		History:        trimHistory(req.History),
		Message:        req.Message,
		File:           file,
	})
	if err != nil {
		if errors.Is(err, llm.ErrAllModelsExhausted) {
			return nil, CodedErrorf(http.StatusServiceUnavailable, busyMessage)
		}
		slog.Error("chat generation failed", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "Fehler bei der Verarbeitung der Anfrage")
	}

	return api.ChatResponse{Response: reply}, nil
}

func trimHistory(history []api.ChatMessage) []api.ChatMessage {
	if len(history) <= historyWindow {
		return history
	}
	return history[len(history)-historyWindow:]
}

// decodeUpload parses the widget's data URL. Malformed uploads are dropped
// with a log instead of failing the request.
func decodeUpload(file *api.FileUpload) *llm.Attachment {
	if file == nil {
		return nil
	}

	payload := file.Data
	mimeType := file.Type
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, data, found := strings.Cut(rest, ",")
		if !found {
			slog.Warn("upload has malformed data url, ignoring file", "name", file.Name)
			return nil
		}
		if mt := strings.TrimSuffix(header, ";base64"); mt != "" {
			mimeType = mt
		}
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		slog.Warn("upload is not valid base64, ignoring file", "name", file.Name, "error", err)
		return nil
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &llm.Attachment{MIMEType: mimeType, Data: data}
}
