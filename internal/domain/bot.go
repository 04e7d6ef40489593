package domain

import "time"

// Bot is one chatbot persona created through the workshop wizard. The three
// video URLs are the transparent animation clips produced by the generation
// pipeline; they are persisted here once a full set completes.
type Bot struct {
	ID             string
	Name           string
	Subject        string
	SubjectColor   string
	AvatarURL      string
	Background     string
	Animation      string
	KnowledgeBase  string
	SecurityPrompt string
	VideoIdle      string
	VideoThinking  string
	VideoTalking   string
	VoiceID        string
	Interactions   int
	Accuracy       int
	IsVisible      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
