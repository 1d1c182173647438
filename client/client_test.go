package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trip-api/models"
)

func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/regions", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode([]models.Region{{ID: 1, Name: "São Paulo", Code: "SP"}})
	})
	mux.HandleFunc("POST /api/v1/expenses", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Expense{ID: 7, AmountBRL: 50, CategoryID: 1})
	})
	return httptest.NewServer(mux)
}

func TestGetCachesResponses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	first, err := c.Regions(ctx)
	if err != nil {
		t.Fatalf("first Regions: %v", err)
	}
	if len(first) != 1 || first[0].Code != "SP" {
		t.Fatalf("Regions = %+v", first)
	}

	// Second call within TTL is served from cache.
	if _, err := c.Regions(ctx); err != nil {
		t.Fatalf("second Regions: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestGetFallsBackToStaleOnServerLoss(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, &hits)

	c := New(server.URL)
	ctx := context.Background()

	if _, err := c.Regions(ctx); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	server.Close()

	// Age the cache past its TTL so a refetch is attempted.
	c.nowFn = func() time.Time { return time.Now().Add(time.Hour) }

	regions, err := c.Regions(ctx)
	if err != nil {
		t.Fatalf("Regions after server loss: %v", err)
	}
	if len(regions) != 1 || regions[0].Code != "SP" {
		t.Errorf("stale fallback = %+v", regions)
	}
}

func TestOfflineReadWithoutCacheReturnsErrOffline(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:0")
	c.SetOffline(true)

	if _, err := c.Regions(context.Background()); !errors.Is(err, ErrOffline) {
		t.Errorf("err = %v, want ErrOffline", err)
	}
}

func TestOfflineReadServesCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()
	if _, err := c.Regions(ctx); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	c.SetOffline(true)
	// Even a stale entry beats no data while offline.
	c.nowFn = func() time.Time { return time.Now().Add(time.Hour) }

	regions, err := c.Regions(ctx)
	if err != nil {
		t.Fatalf("offline Regions: %v", err)
	}
	if len(regions) != 1 {
		t.Errorf("offline Regions = %+v", regions)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (no request while offline)", hits.Load())
	}
}

func TestOfflineWriteShortCircuits(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := New(server.URL)
	c.SetOffline(true)

	req := models.CreateExpenseRequest{
		Date:       models.NewCivilDate(2026, time.January, 10),
		AmountBRL:  models.FlexFloat(50),
		CategoryID: models.FlexInt(1),
	}
	if _, err := c.CreateExpense(context.Background(), req); !errors.Is(err, ErrOffline) {
		t.Fatalf("err = %v, want ErrOffline", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hits = %d, want 0: offline writes must not reach the network", hits.Load())
	}
}

func TestMutationInvalidatesDerivedCaches(t *testing.T) {
	t.Parallel()

	var regionHits, dashboardHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/regions", func(w http.ResponseWriter, r *http.Request) {
		regionHits.Add(1)
		json.NewEncoder(w).Encode([]models.Region{})
	})
	mux.HandleFunc("GET /api/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
		dashboardHits.Add(1)
		json.NewEncoder(w).Encode(models.DashboardStats{})
	})
	mux.HandleFunc("POST /api/v1/expenses", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Expense{ID: 1})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	if _, err := c.Dashboard(ctx); err != nil {
		t.Fatalf("prime dashboard: %v", err)
	}
	if _, err := c.Regions(ctx); err != nil {
		t.Fatalf("prime regions: %v", err)
	}

	req := models.CreateExpenseRequest{
		Date:       models.NewCivilDate(2026, time.January, 10),
		AmountBRL:  models.FlexFloat(50),
		CategoryID: models.FlexInt(1),
	}
	if _, err := c.CreateExpense(ctx, req); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	// Dashboard derives from expenses: refetched. Regions do not: cached.
	if _, err := c.Dashboard(ctx); err != nil {
		t.Fatalf("dashboard after mutation: %v", err)
	}
	if _, err := c.Regions(ctx); err != nil {
		t.Fatalf("regions after mutation: %v", err)
	}
	if dashboardHits.Load() != 2 {
		t.Errorf("dashboard hits = %d, want 2", dashboardHits.Load())
	}
	if regionHits.Load() != 1 {
		t.Errorf("region hits = %d, want 1", regionHits.Load())
	}
}

func TestAPIErrorSurfacesServerMessage(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/expenses", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Category not found"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	req := models.CreateExpenseRequest{
		Date:       models.NewCivilDate(2026, time.January, 10),
		AmountBRL:  models.FlexFloat(50),
		CategoryID: models.FlexInt(99),
	}
	_, err := c.CreateExpense(context.Background(), req)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Category not found" {
		t.Errorf("APIError = %+v", apiErr)
	}
}
