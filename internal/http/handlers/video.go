package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"botworkshop/internal/pipeline"
)

type generateVideoRequest struct {
	Prompt      string `json:"prompt"`
	ImageURL    string `json:"imageUrl"`
	Duration    int    `json:"duration"`
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
}

// GenerateVideo submits one video-generation job and returns its request id.
// The client polls /api/video/result/{id} afterwards.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req generateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "prompt is required")
		return
	}

	imageRef := req.ImageURL
	if imageRef != "" {
		normalized, err := pipeline.NewNormalizer(a.Uploads).Normalize(r.Context(), imageRef)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("image normalization failed")
			a.error(w, http.StatusBadRequest, "image could not be read")
			return
		}
		imageRef = normalized
	}

	jobID, err := a.Generator.Submit(r.Context(), pipeline.GenerateRequest{
		Prompt:   req.Prompt,
		ImageRef: imageRef,
		Params: pipeline.RenderParams{
			Duration:    req.Duration,
			AspectRatio: req.AspectRatio,
			Resolution:  req.Resolution,
		},
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("video generation submit failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"request_id": jobID,
	})
}

// VideoResult proxies one status poll for a generation job.
func (a *App) VideoResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "job id is required")
		return
	}

	update, err := a.Generator.Status(r.Context(), jobID)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("video status poll failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{"status": string(update.Status)}
	switch update.Status {
	case pipeline.StatusCompleted:
		resp["url"] = update.ResultURL
		resp["progress"] = 100
	case pipeline.StatusFailed:
		resp["error"] = update.Message
	default:
		resp["progress"] = update.Progress
	}
	a.json(w, http.StatusOK, resp)
}
