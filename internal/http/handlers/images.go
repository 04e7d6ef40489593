package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type generateImageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImage produces one avatar image from a text prompt.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "prompt is required")
		return
	}

	imageURL, err := a.Images.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		a.Logger.Error().Err(err).Msg("image generation failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.json(w, http.StatusOK, map[string]string{"image": imageURL})
}
