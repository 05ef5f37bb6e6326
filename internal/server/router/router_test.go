package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/fuelstation/internal/calibration"
	"github.com/mamadbah2/fuelstation/internal/repository/memory"
	"github.com/mamadbah2/fuelstation/internal/server/handlers"
	"github.com/mamadbah2/fuelstation/internal/service/reporting"
	"github.com/mamadbah2/fuelstation/internal/service/station"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	charts, err := calibration.Load("")
	if err != nil {
		t.Fatalf("load calibration: %v", err)
	}
	stationSvc := station.NewService(memory.NewRepository(), charts, nil, nil,
		station.WithClock(func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }))
	reportingSvc := reporting.NewService(stationSvc, nil, nil)

	return New(Handlers{
		Station: handlers.NewStationHandler(stationSvc, nil),
		Reports: handlers.NewReportHandler(stationSvc, reportingSvc, nil),
	}, nil)
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(context.Background())
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestStationFlowOverHTTP(t *testing.T) {
	engine := newTestEngine(t)

	steps := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/fuels", `{"id":"petrol","name":"Petrol","selling_price":"104","cost_price":"100"}`, http.StatusCreated},
		{http.MethodPost, "/api/fuels", `{"id":"petrol","name":"Petrol"}`, http.StatusConflict},
		{http.MethodPost, "/api/tanks", `{"id":"T1","fuel_id":"petrol","capacity":21000,"current_stock":5000,"calibration_profile":"21kl"}`, http.StatusCreated},
		{http.MethodPost, "/api/purchases", `{"date":"2026-10-16","tank_id":"T1","fuel_id":"petrol","quantity":2000,"amount":"200000"}`, http.StatusCreated},
		{http.MethodPost, "/api/sales-reports", `{"date":"2026-10-16","readings":[{"fuel_id":"petrol","nozzle_id":"N1","opening":1000,"closing":1300}],"collections":{"cash":"31200"}}`, http.StatusCreated},
		{http.MethodGet, "/api/tanks", "", http.StatusOK},
		{http.MethodGet, "/api/reports/sales?from=2026-10-01&to=2026-10-31", "", http.StatusOK},
		{http.MethodGet, "/api/reports/sales?from=yesterday", "", http.StatusBadRequest},
		{http.MethodGet, "/api/prices/petrol/current", "", http.StatusOK},
		{http.MethodGet, "/api/prices/cng/current", "", http.StatusBadRequest},
		{http.MethodDelete, "/api/prices/2026-10-01", "", http.StatusNotFound},
		{http.MethodDelete, "/api/purchases/missing", "", http.StatusNotFound},
		{http.MethodPost, "/api/accounts/hdfc/entries", `{"kind":"bank","date":"2026-10-16","credit":"31200"}`, http.StatusCreated},
		{http.MethodGet, "/api/accounts/hdfc/ledger", "", http.StatusOK},
		{http.MethodPost, "/api/extract/challan", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/healthz", "", http.StatusOK},
	}

	for _, s := range steps {
		w := do(t, engine, s.method, s.path, s.body)
		if w.Code != s.want {
			t.Fatalf("%s %s = %d, want %d: %s", s.method, s.path, w.Code, s.want, w.Body)
		}
	}

	w := do(t, engine, http.MethodGet, "/api/reports/variance", "")
	var variance struct {
		Date  string `json:"date"`
		Tanks []struct {
			TankID          string  `json:"tank_id"`
			VariationLitres float64 `json:"variation_litres"`
		} `json:"tanks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &variance); err != nil {
		t.Fatalf("decode variance: %v", err)
	}
	if variance.Date != "2026-10-16" || len(variance.Tanks) != 1 || variance.Tanks[0].VariationLitres != 5300 {
		t.Fatalf("unexpected variance: %s", w.Body)
	}
}

func TestValidationErrorsListFields(t *testing.T) {
	engine := newTestEngine(t)

	w := do(t, engine, http.MethodPost, "/api/fuels", `{"id":"","name":"Petrol","selling_price":"-1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Fields["id"] != "required" || body.Fields["selling_price"] != "gte" {
		t.Fatalf("unexpected fields: %s", w.Body)
	}

	if w := do(t, engine, http.MethodPost, "/api/fuels", `{not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", w.Code)
	}
}

func TestVarianceXLSXDownload(t *testing.T) {
	engine := newTestEngine(t)

	w := do(t, engine, http.MethodGet, "/api/reports/variance.xlsx", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if w.Header().Get("Content-Type") != reporting.XLSXContentType {
		t.Fatalf("content type = %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "variance-2026-10-16.xlsx") {
		t.Fatalf("content disposition = %q", w.Header().Get("Content-Disposition"))
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Fatal("body is not an xlsx archive")
	}
}
