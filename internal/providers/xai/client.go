package xai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"botworkshop/internal/infra"
	"botworkshop/internal/pipeline"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("xai: api key is required")

const (
	defaultVideoModel = "grok-imagine-video"
	defaultImageModel = "grok-imagine-image"
)

// Options configures the xAI Grok client.
type Options struct {
	APIKey         string
	BaseURL        string
	VideoModel     string
	ImageModel     string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the xAI video and image generation APIs.
type Client struct {
	apiKey     string
	baseURL    string
	videoModel string
	imageModel string
	httpClient *http.Client
	logger     *infra.Logger
}

type imageInput struct {
	URL string `json:"url"`
}

type videoGenerationRequest struct {
	Prompt      string      `json:"prompt"`
	Model       string      `json:"model"`
	Image       *imageInput `json:"image,omitempty"`
	Duration    int         `json:"duration,omitempty"`
	AspectRatio string      `json:"aspect_ratio,omitempty"`
	Resolution  string      `json:"resolution,omitempty"`
	StylePreset string      `json:"style_preset,omitempty"`
}

type videoGenerationResponse struct {
	RequestID string `json:"request_id"`
}

type videoResultResponse struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Video    struct {
		URL string `json:"url"`
	} `json:"video"`
	Error string `json:"error"`
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
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
		baseURL = "https://api.x.ai/v1"
	}
	videoModel := strings.TrimSpace(opts.VideoModel)
	if videoModel == "" {
		videoModel = defaultVideoModel
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = defaultImageModel
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
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		videoModel: videoModel,
		imageModel: imageModel,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Submit issues one video-generation request and returns the upstream request id.
// There is no retry at this layer; a non-success status surfaces the upstream body.
func (c *Client) Submit(ctx context.Context, req pipeline.GenerateRequest) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("xai: prompt is required")
	}
	payload := videoGenerationRequest{
		Prompt:      prompt,
		Model:       c.videoModel,
		Duration:    req.Params.Duration,
		AspectRatio: req.Params.AspectRatio,
		Resolution:  req.Params.Resolution,
		StylePreset: req.Params.StylePreset,
	}
	if ref := strings.TrimSpace(req.ImageRef); ref != "" {
		payload.Image = &imageInput{URL: ref}
	}

	raw, err := c.postJSON(ctx, "/videos/generations", payload)
	if err != nil {
		return "", err
	}
	var decoded videoGenerationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("xai: decode response: %w", err)
	}
	if decoded.RequestID == "" {
		return "", errors.New("xai: empty request id")
	}
	c.logger.Debug().
		Str("model", c.videoModel).
		Str("request_id", decoded.RequestID).
		Msg("xai: video generation submitted")
	return decoded.RequestID, nil
}

// Status fetches the state of a previously submitted video generation.
func (c *Client) Status(ctx context.Context, jobID string) (pipeline.JobUpdate, error) {
	if !c.HasCredentials() {
		return pipeline.JobUpdate{}, ErrMissingAPIKey
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos/"+jobID, nil)
	if err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("xai: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("xai: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("xai: read response: %w", err)
	}
	var decoded videoResultResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("xai: decode response: %w", err)
	}

	// The result endpoint reports a url only once rendering is done; an error
	// field or failed status is terminal, everything else means keep polling.
	if decoded.Video.URL != "" {
		return pipeline.JobUpdate{Status: pipeline.StatusCompleted, Progress: decoded.Progress, ResultURL: decoded.Video.URL}, nil
	}
	if decoded.Error != "" || decoded.Status == "failed" {
		message := decoded.Error
		if message == "" {
			message = "unknown error"
		}
		return pipeline.JobUpdate{Status: pipeline.StatusFailed, Message: message}, nil
	}
	return pipeline.JobUpdate{Status: pipeline.StatusProcessing, Progress: decoded.Progress}, nil
}

// GenerateImage invokes the image generation API once and returns the image URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("xai: prompt is required")
	}
	raw, err := c.postJSON(ctx, "/images/generations", imageGenerationRequest{Model: c.imageModel, Prompt: prompt})
	if err != nil {
		return "", err
	}
	var decoded imageGenerationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("xai: decode response: %w", err)
	}
	if len(decoded.Data) == 0 || decoded.Data[0].URL == "" {
		return "", errors.New("xai: empty image url")
	}
	return decoded.Data[0].URL, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("xai: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("xai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("xai: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("xai: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("xai: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

var _ pipeline.VideoGenerator = (*Client)(nil)
