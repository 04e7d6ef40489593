package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type askRequest struct {
	SystemPrompt string `json:"systemPrompt"`
	Message      string `json:"message"`
}

// Ask forwards one question to the chat model and returns the reply.
func (a *App) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		a.error(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := a.Chat.Ask(r.Context(), req.SystemPrompt, req.Message)
	if err != nil {
		a.Logger.Error().Err(err).Msg("chat completion failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.json(w, http.StatusOK, map[string]string{"reply": reply})
}
