package bidding

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/analytics"
	"github.com/patrickwarner/openmediate/internal/geoip"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/observability"
	"github.com/patrickwarner/openmediate/internal/schema"
)

func orchestratorFixture(t *testing.T, endpoint string) (*models.InMemoryConfigStore, *models.App) {
	t.Helper()

	store := models.NewTestConfigStore()
	app := models.App{ID: 1, AppKey: "key", PackageName: "com.example.game", Platform: "android"}
	sources := []models.DemandSource{{ID: 12, APIKey: "bidmachine", Name: "BidMachine"}}
	accounts := []models.DemandSourceAccount{{
		ID: 102, DemandSourceID: 12, Type: "bidmachine", Bidding: true,
		Extra: fmt.Sprintf(`{"seller_id":"42","endpoint":%q}`, endpoint),
	}}
	profiles := []models.AppDemandProfile{{ID: 202, AppID: 1, AccountType: "bidmachine", AccountID: 102}}
	require.NoError(t, store.ReloadAll([]models.App{app}, nil, nil, accounts, sources, profiles, nil))

	loaded := store.GetAppByKey("key", "com.example.game")
	require.NotNil(t, loaded)
	return store, loaded
}

func newOrchestrator(store models.ConfigStore, sink analytics.EventSink) *Orchestrator {
	return NewOrchestrator(store, sink, observability.NewNoOpRegistry(), nil, 2*time.Second)
}

func TestHoldAuctionWinningBid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"resp-1","seatbid":[{"bid":[{"id":"bid-1","impid":"imp-1","price":7.5,"ext":{"signaldata":"blob"}}]}]}`)
	}))
	defer server.Close()

	store, app := orchestratorFixture(t, server.URL)
	sink := analytics.NewMockSink()
	o := newOrchestrator(store, sink)

	req := biddingRequest(models.AdTypeInterstitial, "")
	result := o.HoldAuction(context.Background(), zap.NewNop(), app, models.AdTypeInterstitial, req, "203.0.113.7", geoip.Data{})

	require.Len(t, result.Bids, 1)
	assert.Equal(t, 7.5, result.MaxPrice())
	winner := result.Winner()
	require.NotNil(t, winner)
	assert.Equal(t, "bidmachine", winner.Demand)
	assert.Equal(t, "blob", winner.Bid.Payload)

	rows := sink.Results()
	require.Len(t, rows, 1)
	assert.Equal(t, "bidmachine", rows[0].Demand)
	assert.Equal(t, "bid", rows[0].Status)
	assert.Equal(t, 7.5, rows[0].Price)
	assert.NotEmpty(t, rows[0].RawRequest)
	assert.NotEmpty(t, rows[0].RawResponse)
}

func TestHoldAuctionNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store, app := orchestratorFixture(t, server.URL)
	sink := analytics.NewMockSink()
	o := newOrchestrator(store, sink)

	req := biddingRequest(models.AdTypeInterstitial, "")
	result := o.HoldAuction(context.Background(), zap.NewNop(), app, models.AdTypeInterstitial, req, "", geoip.Data{})

	require.Len(t, result.Bids, 1)
	assert.Zero(t, result.MaxPrice())
	assert.Nil(t, result.Winner())
	assert.Equal(t, "no_bid", result.Bids[0].Outcome())
}

func TestHoldAuctionPartnerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"sorry"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	store, app := orchestratorFixture(t, server.URL)
	sink := analytics.NewMockSink()
	o := newOrchestrator(store, sink)

	req := biddingRequest(models.AdTypeInterstitial, "")
	result := o.HoldAuction(context.Background(), zap.NewNop(), app, models.AdTypeInterstitial, req, "", geoip.Data{})

	// A failing partner contributes a zero bid and still gets logged.
	require.Len(t, result.Bids, 1)
	assert.Zero(t, result.MaxPrice())
	assert.Equal(t, "error", result.Bids[0].Outcome())

	rows := sink.Results()
	require.Len(t, rows, 1)
	assert.Equal(t, "error", rows[0].Status)
}

func TestHoldAuctionUnreachablePartner(t *testing.T) {
	store, app := orchestratorFixture(t, "http://127.0.0.1:1")
	o := newOrchestrator(store, analytics.NewMockSink())

	req := biddingRequest(models.AdTypeInterstitial, "")
	result := o.HoldAuction(context.Background(), zap.NewNop(), app, models.AdTypeInterstitial, req, "", geoip.Data{})

	require.Len(t, result.Bids, 1)
	assert.Equal(t, "error", result.Bids[0].Outcome())
	assert.Zero(t, result.MaxPrice())
}

func TestHoldAuctionNoEligibleDemands(t *testing.T) {
	store, app := orchestratorFixture(t, "http://unused")
	o := newOrchestrator(store, analytics.NewMockSink())

	// Token missing.
	req := biddingRequest(models.AdTypeInterstitial, "")
	req.Imp.Demands = map[string]map[string]any{"bidmachine": {}}
	result := o.HoldAuction(context.Background(), zap.NewNop(), app, models.AdTypeInterstitial, req, "", geoip.Data{})
	assert.Empty(t, result.Bids)

	// Adapter not declared by the SDK.
	req = biddingRequest(models.AdTypeInterstitial, "")
	req.Adapters = schema.Adapters{}
	result = o.HoldAuction(context.Background(), zap.NewNop(), app, models.AdTypeInterstitial, req, "", geoip.Data{})
	assert.Empty(t, result.Bids)

	// No bidding integration for the demand.
	req = biddingRequest(models.AdTypeInterstitial, "")
	req.Imp.Demands = map[string]map[string]any{"meta": {"token": "x"}}
	result = o.HoldAuction(context.Background(), zap.NewNop(), app, models.AdTypeInterstitial, req, "", geoip.Data{})
	assert.Empty(t, result.Bids)
}

func TestAuctionResultWinnerFirstSeenMax(t *testing.T) {
	result := AuctionResult{Bids: []DemandResponse{
		{Demand: "a", Price: 3.0, Bid: &BidPayload{DemandID: "a"}},
		{Demand: "b", Price: 5.0, Bid: &BidPayload{DemandID: "b"}},
		{Demand: "c", Price: 5.0, Bid: &BidPayload{DemandID: "c"}},
	}}
	winner := result.Winner()
	require.NotNil(t, winner)
	assert.Equal(t, "b", winner.Demand)

	allZero := AuctionResult{Bids: []DemandResponse{{Demand: "a"}, {Demand: "b"}}}
	assert.Nil(t, allZero.Winner())
}
