package logic

import (
	"errors"

	"github.com/google/uuid"

	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// ErrNoAds means the app has no servable waterfall for the request: either no
// active configuration exists or filtering removed every round.
var ErrNoAds = errors.New("no ads found")

// AuctionResponse is the body of a successful auction call.
type AuctionResponse struct {
	Rounds                   []models.Round     `json:"rounds"`
	LineItems                []LineItemResponse `json:"line_items"`
	Token                    string             `json:"token"`
	PriceFloor               float64            `json:"pricefloor"`
	AuctionID                string             `json:"auction_id"`
	AuctionConfigurationID   int                `json:"auction_configuration_id"`
	ExternalWinNotifications bool               `json:"external_win_notifications"`
}

// BuildAuction assembles the waterfall for one auction request. Each call
// mints a fresh auction id even for identical inputs; everything else is a
// pure function of the configuration snapshot.
func BuildAuction(store models.ConfigStore, app *models.App, adType models.AdType, req *schema.AuctionRequest) (*AuctionResponse, error) {
	cfg := store.GetActiveConfiguration(app.ID, adType)
	if cfg == nil {
		return nil, ErrNoAds
	}

	rounds := FilterRounds(cfg.Rounds, req.Adapters)
	if len(rounds) == 0 {
		return nil, ErrNoAds
	}

	lineItems := FetchLineItems(store, app, adType, req.AdObject.Format(), req.Adapters)

	return &AuctionResponse{
		Rounds:                   rounds,
		LineItems:                lineItems,
		Token:                    "{}",
		PriceFloor:               cfg.PriceFloor,
		AuctionID:                uuid.NewString(),
		AuctionConfigurationID:   cfg.ID,
		ExternalWinNotifications: cfg.ExternalWinNotifications,
	}, nil
}
