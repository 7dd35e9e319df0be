package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

func newTestServer() *Server {
	return NewServer("test")
}

func postJSON(t *testing.T, s *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}

func TestCalculateTiered(t *testing.T) {
	s := newTestServer()

	max := decimal.NewFromInt(10)
	req := CalculateRequest{
		Card: types.RateCard{
			ID:       "starter",
			Name:     "starter",
			Model:    types.ModelTiered,
			Currency: types.CurrencyUSD,
			Tiered: &types.TieredParams{
				Tiers: []types.Tier{
					{Min: decimal.NewFromInt(1), Max: &max, PricePerUnit: decimal.NewFromInt(5)},
					{Min: decimal.NewFromInt(11), PricePerUnit: decimal.NewFromInt(3)},
				},
			},
		},
		Quantity: decimal.NewFromInt(15),
	}

	rec := postJSON(t, s, "/calculate", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CalculateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Result.TotalPrice.Equal(decimal.NewFromInt(65)) {
		t.Errorf("expected total 65, got %s", resp.Result.TotalPrice)
	}
	if len(resp.Result.Breakdown) != 2 {
		t.Errorf("expected 2 breakdown lines, got %d", len(resp.Result.Breakdown))
	}
}

func TestCalculateInvalidCard(t *testing.T) {
	s := newTestServer()

	req := CalculateRequest{
		Card: types.RateCard{
			ID:       "broken",
			Name:     "broken",
			Model:    types.ModelTiered,
			Currency: types.CurrencyUSD,
		},
		Quantity: decimal.NewFromInt(1),
	}

	rec := postJSON(t, s, "/calculate", req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code == "" || resp.Message == "" {
		t.Errorf("expected populated error envelope, got %+v", resp)
	}
}

func TestCalculateMalformedJSON(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/calculate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidate(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name  string
		req   ValidateRequest
		valid bool
	}{
		{
			name: "valid cost plus",
			req: ValidateRequest{
				Model: types.ModelCostPlus,
				Parameters: map[string]interface{}{
					"base_cost":      100.0,
					"markup_percent": 25.0,
				},
			},
			valid: true,
		},
		{
			name: "missing field",
			req: ValidateRequest{
				Model:      types.ModelCostPlus,
				Parameters: map[string]interface{}{"base_cost": 100.0},
			},
			valid: false,
		},
		{
			name: "unknown model",
			req: ValidateRequest{
				Model:      types.PricingModel("freemium"),
				Parameters: map[string]interface{}{},
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, s, "/validate", tt.req)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var resp ValidateResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Valid != tt.valid {
				t.Errorf("expected valid=%v, got %v", tt.valid, resp.Valid)
			}
		})
	}
}
