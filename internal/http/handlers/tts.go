package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"botworkshop/internal/middleware"
	"botworkshop/internal/providers/minimax"
)

// ListVoices serves the voice catalogue, via the cache when possible.
func (a *App) ListVoices(w http.ResponseWriter, r *http.Request) {
	if a.Voices != nil {
		if voices, ok := a.Voices.Get(r.Context()); ok {
			a.json(w, http.StatusOK, map[string]any{"voices": voices})
			return
		}
	}

	voices, err := a.Speech.Voices(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("voice catalogue fetch failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if a.Voices != nil {
		a.Voices.Set(r.Context(), voices)
	}
	a.json(w, http.StatusOK, map[string]any{"voices": voices})
}

type ttsRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

// Speak synthesizes speech and streams it back as MP3. The request locale
// picks the language boost hint: Cantonese for zh-HK, Mandarin otherwise for
// Chinese locales.
func (a *App) Speak(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		a.error(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := a.Speech.Speak(r.Context(), minimax.SpeakRequest{
		Text:          req.Text,
		VoiceID:       req.VoiceID,
		LanguageBoost: languageBoostFor(middleware.LocaleFromContext(r.Context())),
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("speech synthesis failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func languageBoostFor(locale string) string {
	switch locale {
	case "zh-HK":
		return "Chinese,Yue"
	case "zh-CN":
		return "Chinese"
	}
	return ""
}
