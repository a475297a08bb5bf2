//go:build !integration

package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"refrescobot/business/admin"
	"refrescobot/business/policy"
	"refrescobot/business/recommend"
	"refrescobot/business/scoring"
	"refrescobot/business/segmenter"
	"refrescobot/domain"

	"github.com/labstack/echo/v4"
)

type stubRecommendation struct {
	err       error
	lastInput recommend.RatingInput
}

func (s *stubRecommendation) Recommend(ctx context.Context, answers []domain.QuizAnswer) (domain.Recommendation, error) {
	if s.err != nil {
		return domain.Recommendation{}, s.err
	}
	return domain.Recommendation{SessionID: "sess-1", State: string(policy.Resolve(answers).State)}, nil
}

func (s *stubRecommendation) MoreOptions(ctx context.Context, sessionID string) (domain.MoreOptions, error) {
	if sessionID != "sess-1" {
		return domain.MoreOptions{}, recommend.ErrSessionNotFound
	}
	return domain.MoreOptions{SessionID: sessionID, NoMoreOptions: true, Options: []domain.Score{}}, nil
}

func (s *stubRecommendation) ResolvePolicy(ctx context.Context, answers []domain.QuizAnswer) (policy.Decision, error) {
	return policy.Resolve(answers), nil
}

func (s *stubRecommendation) RateBeverage(ctx context.Context, in recommend.RatingInput) (domain.RatingUpdate, error) {
	s.lastInput = in
	if s.err != nil {
		return domain.RatingUpdate{}, s.err
	}
	return domain.RatingUpdate{Beverage: domain.RatingStats{Average: float64(in.Score), Count: 1}}, nil
}

func serve(e *echo.Echo, method, target, body string, h echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.Add(method, path, h)
	e.ServeHTTP(rec, req)
	return rec
}

func TestRecommendationHandler(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		method   string
		path     string
		target   string
		body     string
		handler  func(h *RecommendationHandler) echo.HandlerFunc
		want     int
		contains string
	}{
		{
			name:   "recommend ok",
			method: http.MethodPost, path: "/recommendations", target: "/recommendations",
			body:     `{"answers":[{"question_id":"q1","value_token":"no_consume_refrescos"}]}`,
			handler:  func(h *RecommendationHandler) echo.HandlerFunc { return h.Recommend },
			want:     http.StatusOK,
			contains: `"state":"ALTERNATIVES_ONLY"`,
		},
		{
			name:   "recommend empty answers",
			method: http.MethodPost, path: "/recommendations", target: "/recommendations",
			body:    `{"answers":[]}`,
			handler: func(h *RecommendationHandler) echo.HandlerFunc { return h.Recommend },
			want:    http.StatusBadRequest,
		},
		{
			name:   "recommend answer missing token",
			method: http.MethodPost, path: "/recommendations", target: "/recommendations",
			body:     `{"answers":[{"question_id":"q1"}]}`,
			handler:  func(h *RecommendationHandler) echo.HandlerFunc { return h.Recommend },
			want:     http.StatusOK,
			contains: `"state":"BOTH_SEPARATED"`,
		},
		{
			name:   "recommend answer missing question",
			method: http.MethodPost, path: "/recommendations", target: "/recommendations",
			body:    `{"answers":[{"value_token":"consume_frecuente"}]}`,
			handler: func(h *RecommendationHandler) echo.HandlerFunc { return h.Recommend },
			want:    http.StatusBadRequest,
		},
		{
			name:   "recommend internal error hides detail",
			svcErr: errors.New("pq: connection refused"),
			method: http.MethodPost, path: "/recommendations", target: "/recommendations",
			body:     `{"answers":[{"question_id":"q1","value_token":"consume_frecuente"}]}`,
			handler:  func(h *RecommendationHandler) echo.HandlerFunc { return h.Recommend },
			want:     http.StatusInternalServerError,
			contains: "internal server error",
		},
		{
			name:   "more options",
			method: http.MethodGet, path: "/recommendations/:session_id/more", target: "/recommendations/sess-1/more",
			handler:  func(h *RecommendationHandler) echo.HandlerFunc { return h.MoreOptions },
			want:     http.StatusOK,
			contains: `"no_more_options":true`,
		},
		{
			name:   "more options unknown session",
			method: http.MethodGet, path: "/recommendations/:session_id/more", target: "/recommendations/nope/more",
			handler: func(h *RecommendationHandler) echo.HandlerFunc { return h.MoreOptions },
			want:    http.StatusNotFound,
		},
		{
			name:   "policy",
			method: http.MethodPost, path: "/policy", target: "/policy",
			body:     `{"answers":[{"question_id":"q1","value_token":"consume_frecuente"},{"question_id":"q2","value_token":"prioridad_salud"}]}`,
			handler:  func(h *RecommendationHandler) echo.HandlerFunc { return h.ResolvePolicy },
			want:     http.StatusOK,
			contains: `"rule":"health_priority"`,
		},
		{
			name:   "rate ok",
			method: http.MethodPost, path: "/ratings", target: "/ratings",
			body:     `{"session_id":"sess-1","beverage_id":3,"score":4}`,
			handler:  func(h *RecommendationHandler) echo.HandlerFunc { return h.Rate },
			want:     http.StatusCreated,
			contains: `"count":1`,
		},
		{
			name:   "rate out of range",
			method: http.MethodPost, path: "/ratings", target: "/ratings",
			body:    `{"session_id":"sess-1","beverage_id":3,"score":9}`,
			handler: func(h *RecommendationHandler) echo.HandlerFunc { return h.Rate },
			want:    http.StatusBadRequest,
		},
		{
			name:   "rate unknown presentation",
			svcErr: fmt.Errorf("wrap: %w", recommend.ErrPresentationNotFound),
			method: http.MethodPost, path: "/ratings", target: "/ratings",
			body:    `{"session_id":"sess-1","beverage_id":3,"presentation_id":99,"score":2}`,
			handler: func(h *RecommendationHandler) echo.HandlerFunc { return h.Rate },
			want:    http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRecommendationHandler(&stubRecommendation{err: tc.svcErr})
			rec := serve(echo.New(), tc.method, tc.target, tc.body, tc.handler(h), tc.path)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.contains != "" && !strings.Contains(rec.Body.String(), tc.contains) {
				t.Fatalf("body %s does not contain %s", rec.Body.String(), tc.contains)
			}
		})
	}
}

type stubBeverages struct{}

func (stubBeverages) Beverages(ctx context.Context) ([]domain.Beverage, error) {
	return []domain.Beverage{{ID: 1, Name: "Cola"}}, nil
}

func (stubBeverages) Similar(ctx context.Context, id uint64, limit int) ([]domain.SimilarBeverage, error) {
	if id != 1 {
		return nil, recommend.ErrBeverageNotFound
	}
	return []domain.SimilarBeverage{{BeverageID: 2, Similarity: 0.9}}, nil
}

func TestBeverageHandler(t *testing.T) {
	h := NewBeverageHandler(stubBeverages{})
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"similar", "/beverages/1/similar?limit=3", http.StatusOK},
		{"bad id", "/beverages/x/similar", http.StatusBadRequest},
		{"bad limit", "/beverages/1/similar?limit=0", http.StatusBadRequest},
		{"unknown", "/beverages/7/similar", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(echo.New(), http.MethodGet, tc.target, "", h.Similar, "/beverages/:id/similar")
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	rec := serve(echo.New(), http.MethodGet, "/beverages", "", h.List, "/beverages")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Cola") {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, username, password, ip, ua string) (admin.Session, error) {
	if username != "admin" || password != "pw" {
		return admin.Session{}, admin.ErrInvalidCredentials
	}
	return admin.Session{Token: "tok"}, nil
}

func (stubAuth) Logout(ctx context.Context, token string) error { return nil }

type stubModel struct {
	retrainErr error
	maybe      bool
	forced     int
}

func (s *stubModel) ModelStatus(ctx context.Context) (domain.ModelStatus, error) {
	return domain.ModelStatus{Trained: s.forced > 0 || s.maybe, Version: int64(s.forced)}, nil
}

func (s *stubModel) Retrain(ctx context.Context) (domain.ModelStatus, error) {
	if s.retrainErr != nil {
		return domain.ModelStatus{}, s.retrainErr
	}
	s.forced++
	return s.ModelStatus(ctx)
}

func (s *stubModel) MaybeRetrain(ctx context.Context) (bool, error) { return s.maybe, nil }

func (s *stubModel) ClearSamples(ctx context.Context) (int64, error) { return 12, nil }

func (s *stubModel) ProcessCatalog(ctx context.Context) (int, error) { return 10, nil }

func (s *stubModel) PredictCluster(ctx context.Context, id uint64) (domain.ClusterAssignment, error) {
	return domain.ClusterAssignment{BeverageID: id, ClusterID: segmenter.Untrained}, nil
}

func (s *stubModel) EngineConfig(ctx context.Context) (scoring.Config, error) {
	return scoring.DefaultConfig(), nil
}

func (s *stubModel) UpdateEngineConfig(ctx context.Context, overrides map[string]float64) (scoring.Config, error) {
	cfg, err := scoring.DefaultConfig().WithOverrides(overrides)
	if err != nil {
		return scoring.Config{}, fmt.Errorf("%w: %v", recommend.ErrInvalidEngineConfig, err)
	}
	return cfg, nil
}

func TestAdminHandler(t *testing.T) {
	tests := []struct {
		name     string
		model    *stubModel
		method   string
		path     string
		target   string
		body     string
		handler  func(h *AdminHandler) echo.HandlerFunc
		want     int
		contains string
	}{
		{
			name: "login ok", model: &stubModel{},
			method: http.MethodPost, path: "/admin/login", target: "/admin/login",
			body:     `{"username":"admin","password":"pw"}`,
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.Login },
			want:     http.StatusOK,
			contains: `"token":"tok"`,
		},
		{
			name: "login rejected", model: &stubModel{},
			method: http.MethodPost, path: "/admin/login", target: "/admin/login",
			body:    `{"username":"admin","password":"nope"}`,
			handler: func(h *AdminHandler) echo.HandlerFunc { return h.Login },
			want:    http.StatusUnauthorized,
		},
		{
			name: "forced retrain", model: &stubModel{},
			method: http.MethodPost, path: "/admin/model/retrain", target: "/admin/model/retrain?force=true",
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.Retrain },
			want:     http.StatusOK,
			contains: `"retrained":true`,
		},
		{
			name: "retrain not due", model: &stubModel{},
			method: http.MethodPost, path: "/admin/model/retrain", target: "/admin/model/retrain",
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.Retrain },
			want:     http.StatusOK,
			contains: `"retrained":false`,
		},
		{
			name: "retrain in progress", model: &stubModel{retrainErr: fmt.Errorf("fit: %w", segmenter.ErrRetrainInProgress)},
			method: http.MethodPost, path: "/admin/model/retrain", target: "/admin/model/retrain?force=1",
			handler: func(h *AdminHandler) echo.HandlerFunc { return h.Retrain },
			want:    http.StatusConflict,
		},
		{
			name: "retrain insufficient samples", model: &stubModel{retrainErr: segmenter.ErrInsufficientSamples},
			method: http.MethodPost, path: "/admin/model/retrain", target: "/admin/model/retrain?force=true",
			handler: func(h *AdminHandler) echo.HandlerFunc { return h.Retrain },
			want:    http.StatusUnprocessableEntity,
		},
		{
			name: "bad force", model: &stubModel{},
			method: http.MethodPost, path: "/admin/model/retrain", target: "/admin/model/retrain?force=maybe",
			handler: func(h *AdminHandler) echo.HandlerFunc { return h.Retrain },
			want:    http.StatusBadRequest,
		},
		{
			name: "clear samples", model: &stubModel{},
			method: http.MethodDelete, path: "/admin/training-samples", target: "/admin/training-samples",
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.ClearSamples },
			want:     http.StatusOK,
			contains: `"deleted":12`,
		},
		{
			name: "process catalog", model: &stubModel{},
			method: http.MethodPost, path: "/admin/catalog/process", target: "/admin/catalog/process",
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.ProcessCatalog },
			want:     http.StatusOK,
			contains: `"processed":10`,
		},
		{
			name: "cluster", model: &stubModel{},
			method: http.MethodGet, path: "/admin/beverages/:id/cluster", target: "/admin/beverages/4/cluster",
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.BeverageCluster },
			want:     http.StatusOK,
			contains: `"cluster_id":-1`,
		},
		{
			name: "engine config", model: &stubModel{},
			method: http.MethodGet, path: "/admin/engine-config", target: "/admin/engine-config",
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.GetEngineConfig },
			want:     http.StatusOK,
			contains: `"base_probability":50`,
		},
		{
			name: "engine config update", model: &stubModel{},
			method: http.MethodPut, path: "/admin/engine-config", target: "/admin/engine-config",
			body:     `{"overrides":{"base_probability":55}}`,
			handler:  func(h *AdminHandler) echo.HandlerFunc { return h.UpdateEngineConfig },
			want:     http.StatusOK,
			contains: `"base_probability":55`,
		},
		{
			name: "engine config unknown key", model: &stubModel{},
			method: http.MethodPut, path: "/admin/engine-config", target: "/admin/engine-config",
			body:    `{"overrides":{"base_probabilty":55}}`,
			handler: func(h *AdminHandler) echo.HandlerFunc { return h.UpdateEngineConfig },
			want:    http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAdminHandler(stubAuth{}, tc.model)
			rec := serve(echo.New(), tc.method, tc.target, tc.body, tc.handler(h), tc.path)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.contains != "" && !strings.Contains(rec.Body.String(), tc.contains) {
				t.Fatalf("body %s does not contain %s", rec.Body.String(), tc.contains)
			}
		})
	}
}
