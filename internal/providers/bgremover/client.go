package bgremover

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
var ErrMissingAPIKey = errors.New("bgremover: api key is required")

// Options configures the video background removal client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client talks to the videobgremover jobs API: create a job from a video URL,
// start it with a transparent-background target, then poll its status.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type createJobRequest struct {
	VideoURL string `json:"video_url"`
}

type createJobResponse struct {
	ID string `json:"id"`
}

type startJobRequest struct {
	Background background `json:"background"`
}

type background struct {
	Type string `json:"type"`
	// The output must carry an alpha channel; VP9-in-WebM is the service's
	// transparent format.
	TransparentFormat string `json:"transparent_format"`
}

type jobStatusResponse struct {
	Status            string `json:"status"`
	Progress          int    `json:"progress"`
	ProcessedVideoURL string `json:"processed_video_url"`
	Error             string `json:"error"`
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
		baseURL = "https://api.videobgremover.com/v1"
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
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Submit creates and starts a background-removal job for the given video URL.
// The URL must be reachable by the external service.
func (c *Client) Submit(ctx context.Context, videoURL string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return "", errors.New("bgremover: video url is required")
	}

	raw, err := c.postJSON(ctx, "/jobs", createJobRequest{VideoURL: videoURL})
	if err != nil {
		return "", err
	}
	var created createJobResponse
	if err := json.Unmarshal(raw, &created); err != nil {
		return "", fmt.Errorf("bgremover: decode response: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("bgremover: empty job id")
	}

	start := startJobRequest{Background: background{Type: "transparent", TransparentFormat: "webm_vp9"}}
	if _, err := c.postJSON(ctx, "/jobs/"+created.ID+"/start", start); err != nil {
		return "", err
	}
	c.logger.Debug().Str("job_id", created.ID).Msg("bgremover: job started")
	return created.ID, nil
}

// Status fetches the state of a background-removal job. The service only
// promises the completed/failed vocabulary; any other status means keep polling.
func (c *Client) Status(ctx context.Context, jobID string) (pipeline.JobUpdate, error) {
	if !c.HasCredentials() {
		return pipeline.JobUpdate{}, ErrMissingAPIKey
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID+"/status", nil)
	if err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("bgremover: build request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("bgremover: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("bgremover: read response: %w", err)
	}
	var decoded jobStatusResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return pipeline.JobUpdate{}, fmt.Errorf("bgremover: decode response: %w", err)
	}

	switch decoded.Status {
	case "completed":
		return pipeline.JobUpdate{Status: pipeline.StatusCompleted, Progress: decoded.Progress, ResultURL: decoded.ProcessedVideoURL}, nil
	case "failed":
		message := decoded.Error
		if message == "" {
			message = "background removal failed"
		}
		return pipeline.JobUpdate{Status: pipeline.StatusFailed, Message: message}, nil
	default:
		return pipeline.JobUpdate{Status: pipeline.StatusProcessing, Progress: decoded.Progress}, nil
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("bgremover: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bgremover: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("bgremover: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bgremover: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bgremover: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

var _ pipeline.BackgroundRemover = (*Client)(nil)
