package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/analytics"
	"github.com/patrickwarner/openmediate/internal/config"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/observability"
)

// newTestServer builds a Server over an in-memory snapshot with one app, a
// waterfall configuration and a BidMachine bidding account pointing at the
// given endpoint.
func newTestServer(t *testing.T, bidEndpoint string) (*Server, *analytics.MockSink, *mux.Router) {
	t.Helper()

	store := models.NewTestConfigStore()
	app := models.App{ID: 1, AppKey: "test-app-key", PackageName: "com.example.game", Platform: "android"}
	sources := []models.DemandSource{
		{ID: 10, APIKey: "admob", Name: "AdMob"},
		{ID: 12, APIKey: "bidmachine", Name: "BidMachine"},
	}
	accounts := []models.DemandSourceAccount{
		{ID: 100, DemandSourceID: 10, Type: "admob", Extra: `{"network_code":"1234"}`},
		{ID: 102, DemandSourceID: 12, Type: "bidmachine", Bidding: true,
			Extra: fmt.Sprintf(`{"seller_id":"42","endpoint":%q}`, bidEndpoint)},
	}
	items := []models.LineItem{
		{ID: 1, AppID: 1, AdType: models.AdTypeInterstitial, AccountID: 100, BidFloor: 2.0, Code: "admob-int-1"},
	}
	configs := []models.AuctionConfiguration{
		{
			ID: 7, AppID: 1, AdType: models.AdTypeInterstitial, PriceFloor: 0.8,
			Rounds: []models.Round{
				{ID: "ROUND_1", Demands: []string{"admob"}, Bidding: []string{"bidmachine"}, Timeout: 15000},
			},
			CreatedAt: time.Now(),
		},
	}
	profiles := []models.AppDemandProfile{
		{ID: 200, AppID: 1, AccountType: "admob", AccountID: 100},
		{ID: 202, AppID: 1, AccountType: "bidmachine", AccountID: 102},
	}
	require.NoError(t, store.ReloadAll([]models.App{app}, configs, items, accounts, sources, profiles, nil))

	sink := analytics.NewMockSink()
	cfg := config.Config{BiddingTimeout: 2 * time.Second}
	s := NewServer(zap.NewNop(), nil, nil, store, sink, nil, observability.NewNoOpRegistry(), cfg)

	router := mux.NewRouter()
	s.Routes(router)
	router.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)

	return s, sink, router
}

// doJSON posts a JSON body with the SDK version header set.
func doJSON(t *testing.T, router *mux.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(VersionHeader, "0.4.0")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// sdkBody builds a minimal valid request body for the fixture app.
func sdkBody(extra map[string]any) map[string]any {
	body := map[string]any{
		"app": map[string]any{
			"key":    "test-app-key",
			"bundle": "com.example.game",
		},
		"device":  map[string]any{"type": "PHONE", "os": "android"},
		"session": map[string]any{"id": "session-1"},
		"user":    map[string]any{"idfa": "ifa-1"},
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}
