package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestGenerateVideoSubmitsJob(t *testing.T) {
	app := newTestApp(t)
	gen := &fakeGenerator{pollsToGo: 1}
	app.Generator = gen

	body := strings.NewReader(`{"prompt":"波浪起伏的海面","duration":5,"aspectRatio":"1:1","resolution":"720p","imageUrl":"https://img.example/avatar.png"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/video/generate", body)
	rec := httptest.NewRecorder()

	app.GenerateVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body)
	}
	var resp struct {
		Success   bool   `json:"success"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.RequestID != "gen-1" {
		t.Fatalf("response = %+v", resp)
	}
	if len(gen.submits) != 1 {
		t.Fatalf("submits = %d, want 1", len(gen.submits))
	}
	got := gen.submits[0]
	if got.Prompt != "波浪起伏的海面" {
		t.Fatalf("prompt = %q", got.Prompt)
	}
	if got.ImageRef != "https://img.example/avatar.png" {
		t.Fatalf("imageRef = %q, want URL passed through untouched", got.ImageRef)
	}
	if got.Params.Duration != 5 || got.Params.AspectRatio != "1:1" || got.Params.Resolution != "720p" {
		t.Fatalf("params = %+v", got.Params)
	}
}

func TestGenerateVideoRequiresPrompt(t *testing.T) {
	app := newTestApp(t)
	app.Generator = &fakeGenerator{}

	req := httptest.NewRequest(http.MethodPost, "/api/video/generate", strings.NewReader(`{"duration":5}`))
	rec := httptest.NewRecorder()

	app.GenerateVideo(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func resultRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/video/result/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestVideoResultStatusMapping(t *testing.T) {
	app := newTestApp(t)
	gen := &fakeGenerator{pollsToGo: 2}
	app.Generator = gen

	// First poll: still processing.
	rec := httptest.NewRecorder()
	app.VideoResult(rec, resultRequest("job-1"))
	var processing map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &processing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if processing["status"] != "processing" || processing["progress"] != float64(40) {
		t.Fatalf("processing response = %v", processing)
	}
	if _, ok := processing["url"]; ok {
		t.Fatalf("processing response carries url: %v", processing)
	}

	// Second poll: completed with URL and full progress.
	rec = httptest.NewRecorder()
	app.VideoResult(rec, resultRequest("job-1"))
	var done map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if done["status"] != "completed" || done["progress"] != float64(100) {
		t.Fatalf("completed response = %v", done)
	}
	if done["url"] != "https://videos.example/job-1.mp4" {
		t.Fatalf("url = %v", done["url"])
	}
}

func TestVideoResultFailedCarriesError(t *testing.T) {
	app := newTestApp(t)
	app.Generator = &fakeGenerator{failStatus: true}

	rec := httptest.NewRecorder()
	app.VideoResult(rec, resultRequest("job-9"))

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "failed" || resp["error"] != "render rejected" {
		t.Fatalf("failed response = %v", resp)
	}
}
