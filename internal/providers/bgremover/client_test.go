package bgremover

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"botworkshop/internal/pipeline"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestSubmitCreatesAndStartsJob(t *testing.T) {
	var paths []string
	var startBody map[string]any
	client, err := NewClient(Options{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			paths = append(paths, r.URL.Path)
			if got := r.Header.Get("X-Api-Key"); got != "test-key" {
				t.Fatalf("X-Api-Key = %q, want %q", got, "test-key")
			}
			switch r.URL.Path {
			case "/jobs":
				body, _ := io.ReadAll(r.Body)
				var req map[string]any
				if err := json.Unmarshal(body, &req); err != nil {
					t.Fatalf("create body is not JSON: %v", err)
				}
				if req["video_url"] != "https://cdn.example/raw.mp4" {
					t.Fatalf("video_url = %v, want raw video url", req["video_url"])
				}
				return jsonResponse(http.StatusOK, `{"id":"job-9"}`), nil
			case "/jobs/job-9/start":
				body, _ := io.ReadAll(r.Body)
				if err := json.Unmarshal(body, &startBody); err != nil {
					t.Fatalf("start body is not JSON: %v", err)
				}
				return jsonResponse(http.StatusOK, `{}`), nil
			}
			t.Fatalf("unexpected path %q", r.URL.Path)
			return nil, nil
		})},
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	jobID, err := client.Submit(context.Background(), "https://cdn.example/raw.mp4")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if jobID != "job-9" {
		t.Fatalf("jobID = %q, want %q", jobID, "job-9")
	}
	if len(paths) != 2 {
		t.Fatalf("requests = %v, want create then start", paths)
	}

	bg, ok := startBody["background"].(map[string]any)
	if !ok {
		t.Fatalf("start payload = %v, want background block", startBody)
	}
	if bg["type"] != "transparent" {
		t.Fatalf("background type = %v, want transparent", bg["type"])
	}
	if bg["transparent_format"] != "webm_vp9" {
		t.Fatalf("transparent_format = %v, want webm_vp9 (alpha-capable codec)", bg["transparent_format"])
	}
}

func TestSubmitFailsWhenCreateRejected(t *testing.T) {
	client, err := NewClient(Options{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnprocessableEntity, `{"error":"unreachable video_url"}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = client.Submit(context.Background(), "https://cdn.example/raw.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unreachable video_url") {
		t.Fatalf("error = %v, want upstream body preserved", err)
	}
}

func TestStatusMapsVocabulary(t *testing.T) {
	cases := []struct {
		name string
		body string
		want pipeline.JobUpdate
	}{
		{
			name: "completed",
			body: `{"status":"completed","processed_video_url":"https://cdn.example/idle.webm"}`,
			want: pipeline.JobUpdate{Status: pipeline.StatusCompleted, ResultURL: "https://cdn.example/idle.webm"},
		},
		{
			name: "failed",
			body: `{"status":"failed","error":"bad codec"}`,
			want: pipeline.JobUpdate{Status: pipeline.StatusFailed, Message: "bad codec"},
		},
		{
			name: "unknown status keeps polling",
			body: `{"status":"rendering"}`,
			want: pipeline.JobUpdate{Status: pipeline.StatusProcessing},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(Options{
				APIKey: "test-key",
				HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
					if r.URL.Path != "/jobs/job-9/status" {
						t.Fatalf("path = %q, want %q", r.URL.Path, "/jobs/job-9/status")
					}
					return jsonResponse(http.StatusOK, tc.body), nil
				})},
			})
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			got, err := client.Status(context.Background(), "job-9")
			if err != nil {
				t.Fatalf("Status returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Status = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSubmitRequiresCredentials(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := client.Submit(context.Background(), "https://cdn.example/raw.mp4"); err != ErrMissingAPIKey {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
}
