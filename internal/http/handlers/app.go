package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"botworkshop/internal/domain"
	"botworkshop/internal/infra"
	"botworkshop/internal/pipeline"
	"botworkshop/internal/providers/minimax"
	"botworkshop/internal/storage"
	"botworkshop/internal/voicecache"
)

// ImageGenerator produces a single avatar image URL from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// SpeechService exposes the voice catalogue and speech synthesis.
type SpeechService interface {
	Voices(ctx context.Context) ([]minimax.Voice, error)
	Speak(ctx context.Context, req minimax.SpeakRequest) ([]byte, error)
}

// ChatService answers a system+user prompt pair.
type ChatService interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Logger infra.Logger

	Bots      domain.BotRepository
	Generator pipeline.VideoGenerator
	Remover   pipeline.BackgroundRemover
	Images    ImageGenerator
	Speech    SpeechService
	Chat      ChatService
	Uploads   *storage.FileStore
	Voices    voicecache.Cache

	PublicBaseURL string
	PollInterval  time.Duration
	PollAttempts  int
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}
