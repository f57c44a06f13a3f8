package schema

// BiddingRequest is the body of POST /bidding/{ad_type}: one impression plus
// the opaque bidding tokens the SDK collected from each adapter.
type BiddingRequest struct {
	BaseRequest
	Adapters Adapters `json:"adapters"`
	Imp      Imp      `json:"imp"`
	Test     bool     `json:"test,omitempty"`
	TMax     int      `json:"tmax,omitempty"`
}

// Imp is the single impression up for auction.
type Imp struct {
	ID                     string                    `json:"id"`
	AuctionID              string                    `json:"auction_id"`
	AuctionConfigurationID int                       `json:"auction_configuration_id,omitempty"`
	RoundID                string                    `json:"round_id,omitempty"`
	BidFloor               float64                   `json:"bidfloor"`
	Orientation            string                    `json:"orientation,omitempty"`
	Demands                map[string]map[string]any `json:"demands"`
	Banner                 *BannerAdObject           `json:"banner,omitempty"`
	Interstitial           *InterstitialAdObject     `json:"interstitial,omitempty"`
	Rewarded               *RewardedAdObject         `json:"rewarded,omitempty"`
}

// Format returns the requested banner format, or "" for non-banner imps.
func (i *Imp) Format() string {
	if i.Banner != nil {
		return i.Banner.Format
	}
	return ""
}

// IsLandscape reports whether the SDK asked for a landscape creative.
func (i *Imp) IsLandscape() bool {
	return i.Orientation == "LANDSCAPE"
}

// Token returns the opaque bidding token collected for an adapter, or "".
func (i *Imp) Token(adapterName string) string {
	demand, ok := i.Demands[adapterName]
	if !ok {
		return ""
	}
	token, _ := demand["token"].(string)
	return token
}

// EventRequest is the body of the fire-and-forget tracking endpoints
// (/stats, /show, /click, /loss, /reward, /win). Only the fields the event
// sink cares about are decoded; the rest of the payload is passed through.
type EventRequest struct {
	BaseRequest
	ImpID          string          `json:"imp_id,omitempty"`
	AuctionID      string          `json:"auction_id,omitempty"`
	DemandID       string          `json:"demand_id,omitempty"`
	ECPM           float64         `json:"ecpm,omitempty"`
	Stats          map[string]any  `json:"stats,omitempty"`
	ExternalWinner *ExternalWinner `json:"external_winner,omitempty"`
}

// ExternalWinner reports a win that happened outside this mediation flow.
type ExternalWinner struct {
	DemandID string  `json:"demand_id"`
	ECPM     float64 `json:"ecpm"`
}
