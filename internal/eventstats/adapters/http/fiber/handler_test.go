package fiber_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	httpadapter "clickstream-insights/internal/eventstats/adapters/http/fiber"
	"clickstream-insights/internal/eventstats/core/domain"
	"clickstream-insights/internal/eventstats/core/usecase"

	"github.com/gofiber/fiber/v2"
)

// Fake usecase implementing the interface that handler depends on.
type fakeGetStatsUseCase struct {
	ExecuteFn func(ctx context.Context, in usecase.GetStatsInput) (*domain.EventStats, error)
	lastInput usecase.GetStatsInput
	called    bool
}

func (f *fakeGetStatsUseCase) Execute(ctx context.Context, in usecase.GetStatsInput) (*domain.EventStats, error) {
	f.called = true
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return &domain.EventStats{EventType: in.EventType, From: in.From, To: in.To, GroupBy: in.GroupBy}, nil
}

func setupApp(t *testing.T, uc httpadapter.GetStatsUseCase) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := httpadapter.NewStatsHandler(uc)
	app.Get("/events/stats", h.GetStats)
	return app
}

func get(t *testing.T, app *fiber.App, params url.Values) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/events/stats?"+params.Encode(), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func baseParams() url.Values {
	params := url.Values{}
	params.Set("event_type", "cart")
	params.Set("from", "100")
	params.Set("to", "200")
	return params
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestGetStats_Success_GroupByPriceTier(t *testing.T) {
	uc := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetStatsInput) (*domain.EventStats, error) {
			return &domain.EventStats{
				EventType:      in.EventType,
				From:           in.From,
				To:             in.To,
				TotalCount:     30,
				UniqueSessions: 12,
				UniqueUsers:    10,
				GroupBy:        in.GroupBy,
				Groups: []domain.StatsGroup{
					{Key: "High", TotalCount: 10, UniqueSessions: 5, UniqueUsers: 4},
					{Key: "Low", TotalCount: 20, UniqueSessions: 8, UniqueUsers: 7},
				},
			}, nil
		},
	}
	app := setupApp(t, uc)

	params := baseParams()
	params.Set("group_by", "price_tier")
	params.Set("price_tier", "High")

	resp, body := get(t, app, params)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}
	if uc.lastInput.PriceTier == nil || *uc.lastInput.PriceTier != "High" {
		t.Fatalf("expected price_tier=High to reach the usecase")
	}

	var out httpadapter.StatsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.UniqueSessions != 12 || len(out.Groups) != 2 || out.Groups[0].Key != "High" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestGetStats_Success_EmptyGroupsIsArray(t *testing.T) {
	app := setupApp(t, &fakeGetStatsUseCase{})

	resp, body := get(t, app, baseParams())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["groups"].([]any); !ok {
		t.Fatalf("expected groups to be an array, got %v", raw["groups"])
	}
}

// ------------------------------------------------------------
// BAD REQUESTS
// ------------------------------------------------------------

func TestGetStats_MissingParams(t *testing.T) {
	cases := map[string]func(url.Values){
		"no event_type": func(v url.Values) { v.Del("event_type") },
		"no from":       func(v url.Values) { v.Del("from") },
		"bad to":        func(v url.Values) { v.Set("to", "soon") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			uc := &fakeGetStatsUseCase{}
			app := setupApp(t, uc)

			params := baseParams()
			mutate(params)

			resp, _ := get(t, app, params)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", resp.StatusCode)
			}
			if uc.called {
				t.Fatalf("usecase must not be called")
			}
		})
	}
}

func TestGetStats_UsecaseValidationError(t *testing.T) {
	uc := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetStatsInput) (*domain.EventStats, error) {
			return nil, usecase.ErrInvalidGroupBy
		},
	}
	app := setupApp(t, uc)

	params := baseParams()
	params.Set("group_by", "brand")

	resp, body := get(t, app, params)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	var out httpadapter.ErrorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error != "invalid_query" {
		t.Fatalf("expected invalid_query, got %s", out.Error)
	}
}

func TestGetStats_InternalError(t *testing.T) {
	uc := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetStatsInput) (*domain.EventStats, error) {
			return nil, errors.New("db down")
		},
	}
	app := setupApp(t, uc)

	resp, _ := get(t, app, baseParams())
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
}
