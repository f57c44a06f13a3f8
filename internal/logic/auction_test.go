package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

func TestBuildAuction(t *testing.T) {
	store, app := newStoreFixture(t)
	req := &schema.AuctionRequest{Adapters: adapterSet("admob", "unity", "bidmachine")}

	resp, err := BuildAuction(store, app, models.AdTypeInterstitial, req)
	require.NoError(t, err)

	assert.Equal(t, []models.Round{
		{ID: "ROUND_1", Demands: []string{"admob", "unity"}, Bidding: []string{"bidmachine"}, Timeout: 15000},
		{ID: "ROUND_2", Demands: []string{"unity"}, Timeout: 15000},
	}, resp.Rounds)
	assert.Equal(t, []LineItemResponse{
		{ID: "admob", PriceFloor: 2.0, AdUnitID: "admob-int-1"},
		{ID: "unity", PriceFloor: 1.5, AdUnitID: "unity-int-1"},
	}, resp.LineItems)
	assert.Equal(t, "{}", resp.Token)
	assert.Equal(t, 0.8, resp.PriceFloor)
	assert.Equal(t, 7, resp.AuctionConfigurationID)
	assert.True(t, resp.ExternalWinNotifications)
	assert.NotEmpty(t, resp.AuctionID)
}

func TestBuildAuctionFreshAuctionID(t *testing.T) {
	store, app := newStoreFixture(t)
	req := &schema.AuctionRequest{Adapters: adapterSet("admob", "unity")}

	first, err := BuildAuction(store, app, models.AdTypeInterstitial, req)
	require.NoError(t, err)
	second, err := BuildAuction(store, app, models.AdTypeInterstitial, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.AuctionID, second.AuctionID)
	assert.Equal(t, first.Rounds, second.Rounds)
	assert.Equal(t, first.LineItems, second.LineItems)
	assert.Equal(t, first.PriceFloor, second.PriceFloor)
	assert.Equal(t, first.AuctionConfigurationID, second.AuctionConfigurationID)
}

func TestBuildAuctionNoConfiguration(t *testing.T) {
	store, app := newStoreFixture(t)
	req := &schema.AuctionRequest{Adapters: adapterSet("admob")}

	_, err := BuildAuction(store, app, models.AdTypeRewarded, req)
	assert.ErrorIs(t, err, ErrNoAds)
}

func TestBuildAuctionAllRoundsFiltered(t *testing.T) {
	store, app := newStoreFixture(t)
	req := &schema.AuctionRequest{Adapters: adapterSet("some_new_network")}

	_, err := BuildAuction(store, app, models.AdTypeInterstitial, req)
	assert.ErrorIs(t, err, ErrNoAds)
}

func TestBuildConfigNeverEmpty(t *testing.T) {
	store, app := newStoreFixture(t)

	resp := BuildConfig(store, app, schema.Adapters{})
	require.NotNil(t, resp)
	assert.Equal(t, ConfigTMax, resp.Init.TMax)
	assert.NotNil(t, resp.Init.Adapters)
	assert.Equal(t, []any{}, resp.Placements)
	assert.Equal(t, "{}", resp.Token)
	assert.Equal(t, "", resp.SegmentID)
}
