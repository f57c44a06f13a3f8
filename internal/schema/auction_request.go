package schema

// AuctionRequest is the body of POST /auction/{ad_type}.
type AuctionRequest struct {
	BaseRequest
	Adapters Adapters `json:"adapters"`
	AdObject AdObject `json:"ad_object"`
}

// ConfigRequest is the body of POST /config.
type ConfigRequest struct {
	BaseRequest
	Adapters Adapters `json:"adapters"`
}

// AdObject is the ad-type-specific sub-payload of an auction request.
type AdObject struct {
	PlacementID  string                `json:"placement_id,omitempty"`
	AuctionID    string                `json:"auction_id,omitempty"`
	Orientation  string                `json:"orientation,omitempty"` // PORTRAIT or LANDSCAPE.
	PriceFloor   float64               `json:"pricefloor,omitempty"`
	Banner       *BannerAdObject       `json:"banner,omitempty"`
	Interstitial *InterstitialAdObject `json:"interstitial,omitempty"`
	Rewarded     *RewardedAdObject     `json:"rewarded,omitempty"`
}

// Format returns the requested banner format, or "" for non-banner objects.
func (o *AdObject) Format() string {
	if o.Banner != nil {
		return o.Banner.Format
	}
	return ""
}

// BannerAdObject names the requested banner format.
type BannerAdObject struct {
	Format string `json:"format"`
}

// InterstitialAdObject has no extra fields today.
type InterstitialAdObject struct{}

// RewardedAdObject has no extra fields today.
type RewardedAdObject struct{}
