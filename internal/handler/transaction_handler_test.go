package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

func TestTransactionHandler(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	router := setupRouter(t)

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("happy: create transaction assigns id and timestamp", func(t *testing.T) {
		w := post("/api/v1/transactions", `{"amount": 42.5, "currency": "USD", "merchant_id": "m-1"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var txn model.Transaction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txn))
		assert.NotEmpty(t, txn.ID)
		assert.Equal(t, 42.5, txn.Amount)
		assert.False(t, txn.Timestamp.IsZero())
	})

	t.Run("bad: zero amount", func(t *testing.T) {
		w := post("/api/v1/transactions", `{"amount": 0, "currency": "USD"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: missing currency", func(t *testing.T) {
		w := post("/api/v1/transactions", `{"amount": 10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("happy: batch insert returns every transaction with an id", func(t *testing.T) {
		body := `{"transactions": [
			{"amount": 10, "currency": "USD"},
			{"amount": 20, "currency": "EUR"},
			{"amount": 30, "currency": "GBP"}
		]}`
		w := post("/api/v1/transactions/batch", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Transactions []model.Transaction `json:"transactions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Transactions, 3)
		for _, txn := range resp.Transactions {
			assert.NotEmpty(t, txn.ID)
		}
	})

	t.Run("bad: empty batch insert", func(t *testing.T) {
		w := post("/api/v1/transactions/batch", `{"transactions": []}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("happy: record fee sample", func(t *testing.T) {
		w := post("/api/v1/fees", `{"gateway_id": "stripe", "fee": 3.2, "latency_ms": 91}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var sample model.FeeSample
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sample))
		assert.Equal(t, "stripe", sample.GatewayID)
		assert.False(t, sample.Timestamp.IsZero())
	})

	t.Run("bad: fee sample for unknown gateway", func(t *testing.T) {
		w := post("/api/v1/fees", `{"gateway_id": "klarna", "fee": 1.0}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad: negative fee", func(t *testing.T) {
		w := post("/api/v1/fees", `{"gateway_id": "stripe", "fee": -1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
