package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"botworkshop/internal/pipeline"
)

type animateRequest struct {
	ImageURL    string `json:"imageUrl"`
	Duration    int    `json:"duration"`
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
}

type animateResponse struct {
	IdleURL     string `json:"idleUrl"`
	SpeakingURL string `json:"speakingUrl"`
	ThinkingURL string `json:"thinkingUrl"`
}

// Animate runs the full three-variant animation pipeline for one avatar image
// and responds with the transparent clip URLs. The request stays open for the
// whole run; either all three clips come back or an error does.
func (a *App) Animate(w http.ResponseWriter, r *http.Request) {
	var req animateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		a.error(w, http.StatusBadRequest, "imageUrl is required")
		return
	}

	orch, err := pipeline.NewOrchestrator(pipeline.Options{
		Generator:    a.Generator,
		Remover:      a.Remover,
		Normalizer:   pipeline.NewNormalizer(a.Uploads),
		PollInterval: a.PollInterval,
		PollAttempts: a.PollAttempts,
		Logger:       &a.Logger,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("orchestrator setup failed")
		a.error(w, http.StatusInternalServerError, "animation pipeline unavailable")
		return
	}

	set, err := orch.GenerateSet(r.Context(), req.ImageURL, pipeline.RenderParams{
		Duration:    req.Duration,
		AspectRatio: req.AspectRatio,
		Resolution:  req.Resolution,
	})
	if err != nil {
		a.error(w, animateErrorStatus(err), err.Error())
		return
	}

	a.json(w, http.StatusOK, animateResponse{
		IdleURL:     set.Idle,
		SpeakingURL: set.Speaking,
		ThinkingURL: set.Thinking,
	})
}

func animateErrorStatus(err error) int {
	var assetErr *pipeline.AssetReadError
	if errors.As(err, &assetErr) {
		return http.StatusBadRequest
	}
	var timeoutErr *pipeline.TimeoutError
	if errors.As(err, &timeoutErr) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
