package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"botworkshop/internal/domain"
)

// botPayload is the client-facing bot shape. Field names follow the camelCase
// convention the frontend expects.
type botPayload struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Subject        string `json:"subject"`
	SubjectColor   string `json:"subjectColor"`
	AvatarURL      string `json:"avatarUrl"`
	Background     string `json:"background"`
	Animation      string `json:"animation"`
	KnowledgeBase  string `json:"knowledgeBase"`
	SecurityPrompt string `json:"securityPrompt"`
	VideoIdle      string `json:"videoIdle"`
	VideoThinking  string `json:"videoThinking"`
	VideoTalking   string `json:"videoTalking"`
	VoiceID        string `json:"voiceId"`
	Interactions   int    `json:"interactions"`
	Accuracy       int    `json:"accuracy"`
	IsVisible      bool   `json:"isVisible"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

func botToPayload(b *domain.Bot) botPayload {
	p := botPayload{
		ID:             b.ID,
		Name:           b.Name,
		Subject:        b.Subject,
		SubjectColor:   b.SubjectColor,
		AvatarURL:      b.AvatarURL,
		Background:     b.Background,
		Animation:      b.Animation,
		KnowledgeBase:  b.KnowledgeBase,
		SecurityPrompt: b.SecurityPrompt,
		VideoIdle:      b.VideoIdle,
		VideoThinking:  b.VideoThinking,
		VideoTalking:   b.VideoTalking,
		VoiceID:        b.VoiceID,
		Interactions:   b.Interactions,
		Accuracy:       b.Accuracy,
		IsVisible:      b.IsVisible,
	}
	if !b.CreatedAt.IsZero() {
		p.CreatedAt = b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if !b.UpdatedAt.IsZero() {
		p.UpdatedAt = b.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return p
}

func (p botPayload) toBot() domain.Bot {
	return domain.Bot{
		ID:             p.ID,
		Name:           p.Name,
		Subject:        p.Subject,
		SubjectColor:   p.SubjectColor,
		AvatarURL:      p.AvatarURL,
		Background:     p.Background,
		Animation:      p.Animation,
		KnowledgeBase:  p.KnowledgeBase,
		SecurityPrompt: p.SecurityPrompt,
		VideoIdle:      p.VideoIdle,
		VideoThinking:  p.VideoThinking,
		VideoTalking:   p.VideoTalking,
		VoiceID:        p.VoiceID,
		Interactions:   p.Interactions,
		Accuracy:       p.Accuracy,
		IsVisible:      p.IsVisible,
	}
}

func (a *App) ListBots(w http.ResponseWriter, r *http.Request) {
	bots, err := a.Bots.List(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list bots failed")
		a.error(w, http.StatusInternalServerError, "failed to list bots")
		return
	}
	payload := make([]botPayload, 0, len(bots))
	for i := range bots {
		payload = append(payload, botToPayload(&bots[i]))
	}
	a.json(w, http.StatusOK, payload)
}

func (a *App) GetBot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bot, err := a.Bots.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "bot not found")
			return
		}
		a.Logger.Error().Err(err).Str("bot_id", id).Msg("get bot failed")
		a.error(w, http.StatusInternalServerError, "failed to load bot")
		return
	}
	a.json(w, http.StatusOK, botToPayload(bot))
}

func (a *App) CreateBot(w http.ResponseWriter, r *http.Request) {
	var payload botPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		a.error(w, http.StatusBadRequest, "name is required")
		return
	}
	bot := payload.toBot()
	bot.ID = ""
	created, err := a.Bots.Create(r.Context(), &bot)
	if err != nil {
		a.Logger.Error().Err(err).Msg("create bot failed")
		a.error(w, http.StatusInternalServerError, "failed to create bot")
		return
	}
	a.json(w, http.StatusCreated, botToPayload(created))
}

func (a *App) UpdateBot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := a.Bots.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "bot not found")
			return
		}
		a.Logger.Error().Err(err).Str("bot_id", id).Msg("load bot for update failed")
		a.error(w, http.StatusInternalServerError, "failed to load bot")
		return
	}

	payload := botToPayload(existing)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	bot := payload.toBot()
	bot.ID = id

	updated, err := a.Bots.Update(r.Context(), &bot)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "bot not found")
			return
		}
		a.Logger.Error().Err(err).Str("bot_id", id).Msg("update bot failed")
		a.error(w, http.StatusInternalServerError, "failed to update bot")
		return
	}
	a.json(w, http.StatusOK, botToPayload(updated))
}

func (a *App) DeleteBot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Bots.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "bot not found")
			return
		}
		a.Logger.Error().Err(err).Str("bot_id", id).Msg("delete bot failed")
		a.error(w, http.StatusInternalServerError, "failed to delete bot")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"deleted": true})
}
