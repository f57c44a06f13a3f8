package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/patrickwarner/openmediate/internal/models"
)

// newStoreFixture loads a small but realistic snapshot: one iOS app, three
// demand sources, line items across ad types and an auction configuration
// with two rounds.
func newStoreFixture(t *testing.T) (*models.InMemoryConfigStore, *models.App) {
	t.Helper()

	store := models.NewTestConfigStore()

	app := models.App{ID: 1, AppKey: "test-app-key", PackageName: "com.example.game", Platform: "ios"}

	sources := []models.DemandSource{
		{ID: 10, APIKey: "admob", Name: "AdMob"},
		{ID: 11, APIKey: "unity", Name: "Unity Ads"},
		{ID: 12, APIKey: "bidmachine", Name: "BidMachine"},
	}
	accounts := []models.DemandSourceAccount{
		{ID: 100, DemandSourceID: 10, Type: "admob", Extra: `{"network_code":"1234"}`},
		{ID: 101, DemandSourceID: 11, Type: "unity", Extra: `{"game_id":"999"}`},
		{ID: 102, DemandSourceID: 12, Type: "bidmachine", Extra: `{"seller_id":"42","endpoint":"x","mediation_config":["a"],"internal_note":"drop me"}`, Bidding: true},
	}
	items := []models.LineItem{
		{ID: 1, AppID: 1, AdType: models.AdTypeBanner, AccountID: 100, BidFloor: 0.5, Code: "admob-banner-1", Format: models.FormatBanner},
		{ID: 2, AppID: 1, AdType: models.AdTypeBanner, AccountID: 101, BidFloor: 0.3, Code: "unity-banner-1", Format: models.FormatMREC},
		{ID: 3, AppID: 1, AdType: models.AdTypeInterstitial, AccountID: 100, BidFloor: 2.0, Code: "admob-int-1"},
		{ID: 4, AppID: 1, AdType: models.AdTypeInterstitial, AccountID: 101, BidFloor: 1.5, Code: "unity-int-1"},
	}
	configs := []models.AuctionConfiguration{
		{
			ID: 7, AppID: 1, AdType: models.AdTypeInterstitial, PriceFloor: 0.8,
			Rounds: []models.Round{
				{ID: "ROUND_1", Demands: []string{"admob", "unity"}, Bidding: []string{"bidmachine"}, Timeout: 15000},
				{ID: "ROUND_2", Demands: []string{"unity"}, Timeout: 15000},
			},
			ExternalWinNotifications: true,
			CreatedAt:                time.Now(),
		},
	}
	profiles := []models.AppDemandProfile{
		{ID: 200, AppID: 1, AccountType: "admob", AccountID: 100},
		{ID: 201, AppID: 1, AccountType: "unity", AccountID: 101},
		{ID: 202, AppID: 1, AccountType: "bidmachine", AccountID: 102},
	}

	err := store.ReloadAll([]models.App{app}, configs, items, accounts, sources, profiles, nil)
	require.NoError(t, err)

	loaded := store.GetAppByKey("test-app-key", "com.example.game")
	require.NotNil(t, loaded)
	return store, loaded
}
