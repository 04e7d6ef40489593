package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"botworkshop/internal/domain"
)

type fakeBotRepo struct {
	bots map[string]domain.Bot
}

func newFakeBotRepo() *fakeBotRepo {
	return &fakeBotRepo{bots: make(map[string]domain.Bot)}
}

func (r *fakeBotRepo) List(context.Context) ([]domain.Bot, error) {
	out := make([]domain.Bot, 0, len(r.bots))
	for _, b := range r.bots {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBotRepo) GetByID(_ context.Context, id string) (*domain.Bot, error) {
	b, ok := r.bots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBotRepo) Create(_ context.Context, bot *domain.Bot) (*domain.Bot, error) {
	b := *bot
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.bots[b.ID] = b
	return &b, nil
}

func (r *fakeBotRepo) Update(_ context.Context, bot *domain.Bot) (*domain.Bot, error) {
	if _, ok := r.bots[bot.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	b := *bot
	b.UpdatedAt = time.Now()
	r.bots[b.ID] = b
	return &b, nil
}

func (r *fakeBotRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.bots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.bots, id)
	return nil
}

func botRequest(method, path, id, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func TestCreateBotReturnsCamelCaseFields(t *testing.T) {
	app := newTestApp(t)
	app.Bots = newFakeBotRepo()

	body := `{"name":"科学家小博","subject":"science","subjectColor":"#3b82f6","avatarUrl":"https://img.example/a.png","voiceId":"male-qn-qingse","isVisible":true}`
	rec := httptest.NewRecorder()
	app.CreateBot(rec, botRequest(http.MethodPost, "/api/bots", "", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["id"] == "" || resp["id"] == nil {
		t.Fatalf("id missing in response: %v", resp)
	}
	for _, key := range []string{"subjectColor", "avatarUrl", "voiceId", "isVisible", "videoIdle", "videoTalking", "videoThinking"} {
		if _, ok := resp[key]; !ok {
			t.Fatalf("response missing %q: %v", key, resp)
		}
	}
	if resp["voiceId"] != "male-qn-qingse" {
		t.Fatalf("voiceId = %v", resp["voiceId"])
	}
}

func TestCreateBotRequiresName(t *testing.T) {
	app := newTestApp(t)
	app.Bots = newFakeBotRepo()

	rec := httptest.NewRecorder()
	app.CreateBot(rec, botRequest(http.MethodPost, "/api/bots", "", `{"subject":"math"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateBotMergesPartialBody(t *testing.T) {
	app := newTestApp(t)
	repo := newFakeBotRepo()
	app.Bots = repo

	created, err := repo.Create(context.Background(), &domain.Bot{Name: "初版", Subject: "history", VoiceID: "v1"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	app.UpdateBot(rec, botRequest(http.MethodPut, "/api/bots/"+created.ID, created.ID, `{"name":"改名"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["name"] != "改名" {
		t.Fatalf("name = %v, want updated", resp["name"])
	}
	if resp["subject"] != "history" || resp["voiceId"] != "v1" {
		t.Fatalf("untouched fields lost: %v", resp)
	}
}

func TestGetBotNotFound(t *testing.T) {
	app := newTestApp(t)
	app.Bots = newFakeBotRepo()

	rec := httptest.NewRecorder()
	app.GetBot(rec, botRequest(http.MethodGet, "/api/bots/nope", "nope", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeleteBot(t *testing.T) {
	app := newTestApp(t)
	repo := newFakeBotRepo()
	app.Bots = repo
	created, _ := repo.Create(context.Background(), &domain.Bot{Name: "待删"})

	rec := httptest.NewRecorder()
	app.DeleteBot(rec, botRequest(http.MethodDelete, "/api/bots/"+created.ID, created.ID, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if _, err := repo.GetByID(context.Background(), created.ID); err == nil {
		t.Fatal("bot still present after delete")
	}
}
