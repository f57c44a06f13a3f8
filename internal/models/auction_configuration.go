package models

import "time"

// Round is one waterfall step of an auction configuration. Demands lists
// classic waterfall adapters, Bidding lists adapters queried through the
// real-time bidding path. Both are ordered; order is the publisher's
// preference and must survive filtering.
type Round struct {
	ID         string   `json:"id"`
	Demands    []string `json:"demands"`
	Bidding    []string `json:"bidding,omitempty"`
	Timeout    int      `json:"timeout"`
	PriceFloor float64  `json:"pricefloor,omitempty"`
}

// AuctionConfiguration is the server-side waterfall definition for one
// (app, ad type) pair. Several configurations may exist for the pair; only
// the most recently created one is active.
type AuctionConfiguration struct {
	ID                       int       `json:"id"`
	AppID                    int       `json:"app_id"`
	AdType                   AdType    `json:"ad_type"`
	PriceFloor               float64   `json:"pricefloor"`
	Rounds                   []Round   `json:"rounds"`
	ExternalWinNotifications bool      `json:"external_win_notifications"`
	CreatedAt                time.Time `json:"created_at"`
}
