package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumpay/gateway-optimizer/internal/forecaster"
)

func TestForecastHandler(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	router := setupRouter(t)

	getForecast := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("happy: default horizon", func(t *testing.T) {
		w := getForecast("/api/v1/forecasts/stripe")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var f forecaster.Forecast
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &f))
		assert.Equal(t, "stripe", f.GatewayID)
		assert.Len(t, f.Points, 3)
	})

	t.Run("happy: twelve period horizon", func(t *testing.T) {
		w := getForecast("/api/v1/forecasts/paypal?horizon=12")
		require.Equal(t, http.StatusOK, w.Code)

		var f forecaster.Forecast
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &f))
		require.Len(t, f.Points, 12)
		for i, p := range f.Points {
			assert.Equal(t, i+1, p.Period)
		}
	})

	t.Run("bad: unsupported horizon", func(t *testing.T) {
		w := getForecast("/api/v1/forecasts/stripe?horizon=7")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: non-numeric horizon", func(t *testing.T) {
		w := getForecast("/api/v1/forecasts/stripe?horizon=soon")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: unknown gateway", func(t *testing.T) {
		w := getForecast("/api/v1/forecasts/klarna")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
