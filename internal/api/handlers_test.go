// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trilha/internal/auth"
	"github.com/tomtom215/trilha/internal/catalog"
	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/events"
	"github.com/tomtom215/trilha/internal/feedback"
	"github.com/tomtom215/trilha/internal/models"
	"github.com/tomtom215/trilha/internal/profile"
	"github.com/tomtom215/trilha/internal/recommend"
	"github.com/tomtom215/trilha/internal/store"
)

type fakeMapper struct {
	mu   sync.Mutex
	got  []recommend.Answers
	err  error
	resp *recommend.MappingResult
}

func (f *fakeMapper) Map(_ context.Context, a recommend.Answers) (*recommend.MappingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, a)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeRunner struct {
	runErr  error
	ran     []string
	adapted int
}

func (f *fakeRunner) Run(_ context.Context, userID string) (*feedback.CycleResult, error) {
	f.ran = append(f.ran, userID)
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &feedback.CycleResult{UserID: userID, State: feedback.StateNoFeedback}, nil
}

func (f *fakeRunner) RunAll(context.Context) (int, error) {
	return f.adapted, nil
}

type fakePublisher struct {
	err    error
	events []events.FeedbackSubmitted
}

func (f *fakePublisher) PublishFeedback(_ context.Context, evt events.FeedbackSubmitted) error {
	f.events = append(f.events, evt)
	return f.err
}

type testEnv struct {
	server    http.Handler
	mapper    *fakeMapper
	runner    *fakeRunner
	publisher *fakePublisher
	profiles  *profile.Repository
}

func newTestEnv(t *testing.T, authMW *auth.Middleware) *testEnv {
	t.Helper()
	cat, err := catalog.New(
		[]string{"programação", "matemática", "desenho"},
		[]catalog.Track{
			{Name: "Tecnologia", Labels: []string{"programação"}},
			{Name: "Artes", Labels: []string{"desenho"}},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	env := &testEnv{
		mapper: &fakeMapper{resp: &recommend.MappingResult{
			FinalScores:      recommend.LabelScores{"programação": 0.8},
			TrackScores:      recommend.TrackScores{"Tecnologia": 0.8},
			Ranked:           []recommend.RankedTrack{{Track: "Tecnologia", Score: 0.8, BaseScore: 0.8}},
			RecommendedTrack: "Tecnologia",
			Personality:      recommend.NeutralPersonality(),
		}},
		runner:    &fakeRunner{adapted: 3},
		publisher: &fakePublisher{},
		profiles:  profile.NewRepository(store.NewMemoryStore()),
	}
	h, err := NewHandler(Deps{
		Catalog:   cat,
		Mapper:    env.mapper,
		Profiles:  env.profiles,
		Cycle:     env.runner,
		Publisher: env.publisher,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	env.server = NewRouter(h, authMW, cfg).SetupChi()
	return env
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (env *testEnv) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	var out envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

const mappingBody = `{
	"age": 17,
	"goal": "2",
	"weekly_hours": 6,
	"learning_style": "vídeos",
	"hobbies": ["jogar videogames"],
	"likert": {"programação": 5},
	"text_answers": ["gosto de criar jogos"]
}`

func TestHealthAndTracks(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || body.Status != "success" {
		t.Fatalf("health: %d %+v", rec.Code, body)
	}
	var health HealthResponse
	if err := json.Unmarshal(body.Data, &health); err != nil {
		t.Fatal(err)
	}
	if health.Tracks != 2 || health.Labels != 3 || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
	if rec.Header().Get("X-Request-ID") == "" || body.Metadata.RequestID == "" {
		t.Error("missing request ID")
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/catalog/tracks", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("tracks: %d", rec.Code)
	}
	var tracks []models.TrackSummary
	if err := json.Unmarshal(body.Data, &tracks); err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 || tracks[0].Name != "Tecnologia" {
		t.Errorf("tracks = %+v", tracks)
	}
}

func TestCreateMappingAndGetProfile(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodPost, "/api/v1/users/u1/mapping", mappingBody, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("mapping: %d %s", rec.Code, rec.Body.String())
	}
	var resp MappingResponse
	if err := json.Unmarshal(body.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Profile.RecommendedTrack != "Tecnologia" || resp.Profile.Version != 1 {
		t.Errorf("profile = %+v", resp.Profile)
	}

	got := env.mapper.got[0]
	if got.Context.Goal != recommend.GoalFormalEducation {
		t.Errorf("goal = %q", got.Context.Goal)
	}
	if got.Context.LearningStyle != recommend.StyleVideos {
		t.Errorf("style = %q", got.Context.LearningStyle)
	}
	if got.Likert["programação"] != 5 || len(got.Hobbies) != 1 {
		t.Errorf("answers = %+v", got)
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/users/u1/profile", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: %d", rec.Code)
	}
	var p models.UserProfile
	if err := json.Unmarshal(body.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.UserID != "u1" || p.Age != 17 || p.TrackScores["Tecnologia"] != 0.8 {
		t.Errorf("stored profile = %+v", p)
	}

	// A second mapping replaces the profile and bumps the version.
	rec, body = env.do(t, http.MethodPost, "/api/v1/users/u1/mapping", mappingBody, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("second mapping: %d", rec.Code)
	}
	if err := json.Unmarshal(body.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Profile.Version != 2 {
		t.Errorf("version = %d, want 2", resp.Profile.Version)
	}
}

func TestCreateMapping_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mapErr   error
		wantCode int
		wantErr  string
	}{
		{"malformed", `{"age":`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"unknown field", `{"agee": 3}`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"empty", ``, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"likert out of range", `{"likert": {"x": 9}}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative hours", `{"weekly_hours": -1}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"cancelled", `{}`, context.Canceled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"mapper failure", `{}`, errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.mapper.err = tt.mapErr
			rec, body := env.do(t, http.MethodPost, "/api/v1/users/u1/mapping", tt.body, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if body.Error == nil || body.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want code %s", body.Error, tt.wantErr)
			}
			if tt.mapErr != nil && strings.Contains(rec.Body.String(), tt.mapErr.Error()) {
				t.Error("internal error text leaked to client")
			}
		})
	}
}

func TestInvalidUserID(t *testing.T) {
	env := newTestEnv(t, nil)
	long := strings.Repeat("a", 129)
	rec, body := env.do(t, http.MethodGet, "/api/v1/users/"+long+"/profile", "", "")
	if rec.Code != http.StatusBadRequest || body.Error.Code != ErrCodeBadRequest {
		t.Errorf("status = %d, body = %+v", rec.Code, body)
	}
}

func TestProfileNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, path := range []string{"/api/v1/users/ghost/profile", "/api/v1/users/ghost/feedback", "/api/v1/users/ghost/adaptations"} {
		rec, body := env.do(t, http.MethodGet, path, "", "")
		if rec.Code != http.StatusNotFound || body.Error.Code != ErrCodeNotFound {
			t.Errorf("%s: status = %d, body = %+v", path, rec.Code, body)
		}
	}
	rec, _ := env.do(t, http.MethodPost, "/api/v1/users/ghost/feedback", `{"ratings":{"q1":3}}`, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("submit feedback for unknown user: %d", rec.Code)
	}
}

func TestSubmitAndListFeedback(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec, _ := env.do(t, http.MethodPost, "/api/v1/users/u1/mapping", mappingBody, ""); rec.Code != http.StatusCreated {
		t.Fatalf("mapping: %d", rec.Code)
	}

	rec, body := env.do(t, http.MethodPost, "/api/v1/users/u1/feedback",
		`{"ratings":{"q1":2,"q2":3},"missing_topics":"  robótica ","session_type":"study"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("feedback: %d %s", rec.Code, rec.Body.String())
	}
	var resp FeedbackResponse
	if err := json.Unmarshal(body.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.EventPublished || resp.Feedback.ID == "" || resp.Feedback.MissingTopics != "robótica" {
		t.Errorf("response = %+v", resp)
	}
	if len(env.publisher.events) != 1 || env.publisher.events[0].FeedbackID != resp.Feedback.ID {
		t.Errorf("events = %+v", env.publisher.events)
	}

	// Default session type and failed publish.
	env.publisher.err = errors.New("broker down")
	rec, body = env.do(t, http.MethodPost, "/api/v1/users/u1/feedback", `{"suggestions":"mais exemplos"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("feedback: %d", rec.Code)
	}
	if err := json.Unmarshal(body.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.EventPublished || resp.Feedback.SessionType != models.SessionGeneral {
		t.Errorf("response = %+v", resp)
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/users/u1/feedback?days=7", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	var records []models.FeedbackRecord
	if err := json.Unmarshal(body.Data, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].SessionType != models.SessionStudy {
		t.Errorf("records = %+v", records)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/users/u1/feedback?days=zero", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad days: %d", rec.Code)
	}
	rec, _ = env.do(t, http.MethodPost, "/api/v1/users/u1/feedback", `{"session_type":"lecture"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad session type: %d", rec.Code)
	}
}

func TestAdaptationEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, err := env.profiles.Save(context.Background(), &models.UserProfile{UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.profiles.AppendAdaptation(context.Background(), "u1", models.AdaptationRecord{
		Timestamp: time.Now(), Changes: []string{"amplified robótica"}, Satisfaction: "poor",
	}); err != nil {
		t.Fatal(err)
	}

	rec, body := env.do(t, http.MethodPost, "/api/v1/users/u1/adaptations", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("run: %d", rec.Code)
	}
	var res feedback.CycleResult
	if err := json.Unmarshal(body.Data, &res); err != nil {
		t.Fatal(err)
	}
	if res.UserID != "u1" || res.State != feedback.StateNoFeedback {
		t.Errorf("result = %+v", res)
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/users/u1/adaptations", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	var history []models.AdaptationRecord
	if err := json.Unmarshal(body.Data, &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Changes[0] != "amplified robótica" {
		t.Errorf("history = %+v", history)
	}

	env.runner.runErr = store.ErrVersionConflict
	rec, body = env.do(t, http.MethodPost, "/api/v1/users/u1/adaptations", "", "")
	if rec.Code != http.StatusConflict || body.Error.Code != ErrCodeConflict {
		t.Errorf("conflict: %d %+v", rec.Code, body.Error)
	}

	rec, body = env.do(t, http.MethodPost, "/api/v1/admin/adaptations", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sweep: %d", rec.Code)
	}
	var sweep SweepResponse
	if err := json.Unmarshal(body.Data, &sweep); err != nil {
		t.Fatal(err)
	}
	if sweep.Adapted != 3 {
		t.Errorf("adapted = %d", sweep.Adapted)
	}
}

func TestRouting_NotFoundAndMethod(t *testing.T) {
	env := newTestEnv(t, nil)
	rec, body := env.do(t, http.MethodGet, "/api/v1/nowhere", "", "")
	if rec.Code != http.StatusNotFound || body.Error == nil {
		t.Errorf("not found: %d %+v", rec.Code, body)
	}
	rec, body = env.do(t, http.MethodDelete, "/api/v1/users/u1/profile", "", "")
	if rec.Code != http.StatusMethodNotAllowed || body.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("method: %d %+v", rec.Code, body)
	}
}

func TestAuthentication(t *testing.T) {
	m, err := auth.NewJWTManager(config.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"})
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, NewAuthMiddleware(m))
	learner, _ := m.GenerateToken("u1", auth.RoleLearner, time.Hour)
	admin, _ := m.GenerateToken("ops", auth.RoleAdmin, time.Hour)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", "", http.StatusOK},
		{"missing token", http.MethodGet, "/api/v1/catalog/tracks", "", "", http.StatusUnauthorized},
		{"learner reads catalog", http.MethodGet, "/api/v1/catalog/tracks", "", learner, http.StatusOK},
		{"learner maps self", http.MethodPost, "/api/v1/users/u1/mapping", mappingBody, learner, http.StatusCreated},
		{"learner reads other", http.MethodGet, "/api/v1/users/u2/profile", "", learner, http.StatusForbidden},
		{"admin reads any", http.MethodGet, "/api/v1/users/u1/profile", "", admin, http.StatusOK},
		{"learner sweep", http.MethodPost, "/api/v1/admin/adaptations", "", learner, http.StatusForbidden},
		{"admin sweep", http.MethodPost, "/api/v1/admin/adaptations", "", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, tt.method, tt.path, tt.body, tt.token)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want >= 400 && body.Error == nil {
				t.Error("expected JSON error envelope")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	h, err := NewHandler(Deps{Catalog: mustCatalog(t), Mapper: env.mapper, Profiles: env.profiles, Cycle: env.runner})
	if err != nil {
		t.Fatal(err)
	}
	env.server = NewRouter(h, nil, cfg).SetupChi()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec, _ := env.do(t, http.MethodGet, "/api/v1/catalog/tracks", "", "")
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestNewHandler_RequiresDeps(t *testing.T) {
	if _, err := NewHandler(Deps{}); err == nil {
		t.Error("expected error for empty deps")
	}
}

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]string{"programação"}, []catalog.Track{{Name: "Tecnologia", Labels: []string{"programação"}}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
