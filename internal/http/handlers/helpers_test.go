package handlers

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"botworkshop/internal/pipeline"
	"botworkshop/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return &App{
		Logger:        zerolog.New(io.Discard),
		Uploads:       store,
		PublicBaseURL: "http://localhost:4000",
		PollInterval:  time.Millisecond,
		PollAttempts:  10,
	}
}

// fakeGenerator completes each job after a fixed number of polls.
type fakeGenerator struct {
	mu         sync.Mutex
	polls      map[string]int
	pollsToGo  int
	submits    []pipeline.GenerateRequest
	submitErr  error
	resultURL  string
	failStatus bool
}

func (g *fakeGenerator) Submit(_ context.Context, req pipeline.GenerateRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitErr != nil {
		return "", g.submitErr
	}
	g.submits = append(g.submits, req)
	return fmt.Sprintf("gen-%d", len(g.submits)), nil
}

func (g *fakeGenerator) Status(_ context.Context, jobID string) (pipeline.JobUpdate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failStatus {
		return pipeline.JobUpdate{Status: pipeline.StatusFailed, Message: "render rejected"}, nil
	}
	if g.polls == nil {
		g.polls = make(map[string]int)
	}
	g.polls[jobID]++
	if g.polls[jobID] >= g.pollsToGo {
		url := g.resultURL
		if url == "" {
			url = "https://videos.example/" + jobID + ".mp4"
		}
		return pipeline.JobUpdate{Status: pipeline.StatusCompleted, ResultURL: url}, nil
	}
	return pipeline.JobUpdate{Status: pipeline.StatusProcessing, Progress: 40}, nil
}

// fakeRemover succeeds after one poll unless told to fail.
type fakeRemover struct {
	mu        sync.Mutex
	submits   []string
	submitErr error
	statusErr error
	failJob   bool
}

func (f *fakeRemover) Submit(_ context.Context, videoURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submits = append(f.submits, videoURL)
	return fmt.Sprintf("strip-%d", len(f.submits)), nil
}

func (f *fakeRemover) Status(_ context.Context, jobID string) (pipeline.JobUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return pipeline.JobUpdate{}, f.statusErr
	}
	if f.failJob {
		return pipeline.JobUpdate{Status: pipeline.StatusFailed, Message: "matte extraction failed"}, nil
	}
	return pipeline.JobUpdate{Status: pipeline.StatusCompleted, ResultURL: "https://cdn.example/" + jobID + ".webm"}, nil
}
