package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumpay/gateway-optimizer/internal/service"
)

func postOptimize(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/optimize", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestOptimizeHandler(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	router := setupRouter(t)

	t.Run("happy: classical solve covers the batch", func(t *testing.T) {
		body := `{
			"mode": "classical",
			"transactions": [
				{"id": "T1", "amount": 100, "currency": "USD"},
				{"id": "T2", "amount": 50, "currency": "USD"},
				{"id": "T3", "amount": 200, "currency": "USD"}
			]
		}`
		w := postOptimize(t, router, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp service.OptimizeResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.BatchID)
		assert.Len(t, resp.Assignment, 3)
		for _, id := range []string{"T1", "T2", "T3"} {
			assert.Contains(t, resp.Assignment, id)
		}
		require.NotNil(t, resp.Report)
		assert.LessOrEqual(t, resp.Report.OptimizedCost, resp.Report.BaselineCost)
	})

	t.Run("happy: quantum mode still returns a full assignment", func(t *testing.T) {
		body := `{
			"mode": "quantum",
			"transactions": [
				{"amount": 25, "currency": "USD"},
				{"amount": 75, "currency": "EUR"}
			]
		}`
		w := postOptimize(t, router, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp service.OptimizeResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Assignment, 2)
	})

	t.Run("happy: report retrievable by batch id", func(t *testing.T) {
		body := `{"transactions": [{"amount": 60, "currency": "USD"}]}`
		w := postOptimize(t, router, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp service.OptimizeResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		get := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/reports/"+resp.BatchID, nil)
		router.ServeHTTP(get, req)
		assert.Equal(t, http.StatusOK, get.Code, get.Body.String())
	})

	t.Run("bad: empty batch", func(t *testing.T) {
		w := postOptimize(t, router, `{"transactions": []}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: duplicate transaction ids", func(t *testing.T) {
		body := `{"transactions": [
			{"id": "T1", "amount": 10, "currency": "USD"},
			{"id": "T1", "amount": 20, "currency": "USD"}
		]}`
		w := postOptimize(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("bad: currency no gateway settles", func(t *testing.T) {
		w := postOptimize(t, router, `{"transactions": [{"amount": 10, "currency": "XDR"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: unknown mode", func(t *testing.T) {
		w := postOptimize(t, router, `{"mode": "annealed", "transactions": [{"amount": 10, "currency": "USD"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: negative amount", func(t *testing.T) {
		w := postOptimize(t, router, `{"transactions": [{"amount": -5, "currency": "USD"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: negative weight", func(t *testing.T) {
		w := postOptimize(t, router, `{"weights": {"fee": -1}, "transactions": [{"amount": 10, "currency": "USD"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	router := setupRouter(t)

	// Solve once so the summary has something to aggregate.
	w := postOptimize(t, router, `{"transactions": [{"amount": 120, "currency": "USD"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("happy: list with pagination", func(t *testing.T) {
		get := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/reports?page=1&page_size=10", nil)
		router.ServeHTTP(get, req)
		require.Equal(t, http.StatusOK, get.Code)

		var resp struct {
			Data       []json.RawMessage `json:"data"`
			Pagination struct {
				TotalItems int `json:"total_items"`
			} `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
		assert.GreaterOrEqual(t, resp.Pagination.TotalItems, 1)
	})

	t.Run("happy: summary aggregates wins and savings", func(t *testing.T) {
		get := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/reports/summary", nil)
		router.ServeHTTP(get, req)
		require.Equal(t, http.StatusOK, get.Code)

		var resp service.ReportSummary
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Gateways)
	})

	t.Run("bad: malformed batch id", func(t *testing.T) {
		get := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/reports/not-a-uuid", nil)
		router.ServeHTTP(get, req)
		assert.Equal(t, http.StatusBadRequest, get.Code)
	})

	t.Run("bad: unknown batch id", func(t *testing.T) {
		get := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/reports/00000000-0000-0000-0000-000000000000", nil)
		router.ServeHTTP(get, req)
		assert.Equal(t, http.StatusNotFound, get.Code)
	})
}
