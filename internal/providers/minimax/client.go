package minimax

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"botworkshop/internal/infra"
)

// ErrMissingToken indicates that the client was configured without credentials.
var ErrMissingToken = errors.New("minimax: api token is required")

const defaultModel = "speech-2.6-hd"

// Options configures the MiniMax text-to-speech client.
type Options struct {
	Token          string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the MiniMax speech API.
type Client struct {
	token      string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// Voice is one entry from the system voice catalogue.
type Voice struct {
	VoiceID   string `json:"voice_id"`
	VoiceName string `json:"voice_name"`
}

// SpeakRequest captures the inputs for one synthesis call.
type SpeakRequest struct {
	Text    string
	VoiceID string
	// LanguageBoost hints the recognizer toward a language mix, e.g.
	// "Chinese,Yue" for Cantonese-leaning content.
	LanguageBoost string
}

type voiceListRequest struct {
	VoiceType string `json:"voice_type"`
}

type voiceListResponse struct {
	SystemVoice []Voice `json:"system_voice"`
}

type voiceSetting struct {
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Vol     float64 `json:"vol"`
	Pitch   int     `json:"pitch"`
	Emotion string  `json:"emotion"`
}

type audioSetting struct {
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	Bitrate    int    `json:"bitrate"`
	Channel    int    `json:"channel"`
}

type speakPayload struct {
	Model         string       `json:"model"`
	Text          string       `json:"text"`
	LanguageBoost string       `json:"language_boost,omitempty"`
	VoiceSetting  voiceSetting `json:"voice_setting"`
	AudioSetting  audioSetting `json:"audio_setting"`
	OutputFormat  string       `json:"output_format"`
}

type speakResponse struct {
	Data struct {
		Audio string `json:"audio"`
	} `json:"data"`
	BaseResp struct {
		StatusCode int    `json:"status_code"`
		StatusMsg  string `json:"status_msg"`
	} `json:"base_resp"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api-bj.minimaxi.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		token:      strings.TrimSpace(opts.Token),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.token != ""
}

// Voices fetches the full system voice catalogue.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingToken
	}
	raw, err := c.postJSON(ctx, "/get_voice", voiceListRequest{VoiceType: "all"})
	if err != nil {
		return nil, err
	}
	var decoded voiceListResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("minimax: decode response: %w", err)
	}
	return decoded.SystemVoice, nil
}

// Speak synthesizes speech and returns MP3 bytes. The API returns hex-encoded
// audio which is decoded here.
func (c *Client) Speak(ctx context.Context, req SpeakRequest) ([]byte, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingToken
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.New("minimax: text is required")
	}
	if strings.TrimSpace(req.VoiceID) == "" {
		return nil, errors.New("minimax: voice id is required")
	}
	payload := speakPayload{
		Model:         c.model,
		Text:          text,
		LanguageBoost: req.LanguageBoost,
		VoiceSetting:  voiceSetting{VoiceID: req.VoiceID, Speed: 1, Vol: 1, Pitch: 0, Emotion: "calm"},
		AudioSetting:  audioSetting{Format: "mp3", SampleRate: 44100, Bitrate: 128000, Channel: 1},
		OutputFormat:  "hex",
	}

	raw, err := c.postJSON(ctx, "/t2a_v2", payload)
	if err != nil {
		return nil, err
	}
	var decoded speakResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("minimax: decode response: %w", err)
	}
	if decoded.Data.Audio == "" {
		if decoded.BaseResp.StatusMsg != "" {
			return nil, fmt.Errorf("minimax: %s (%d)", decoded.BaseResp.StatusMsg, decoded.BaseResp.StatusCode)
		}
		return nil, errors.New("minimax: no audio returned")
	}
	audio, err := hex.DecodeString(decoded.Data.Audio)
	if err != nil {
		return nil, fmt.Errorf("minimax: decode audio: %w", err)
	}
	c.logger.Debug().
		Str("voice_id", req.VoiceID).
		Int("bytes", len(audio)).
		Msg("minimax: synthesized audio")
	return audio, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("minimax: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("minimax: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("minimax: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("minimax: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("minimax: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
