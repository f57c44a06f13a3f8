package models

// LineItem is a concrete per-network ad unit: the external unit id and price
// floor for one app/ad-type/adapter combination. Format is set iff AdType is
// banner.
type LineItem struct {
	ID        int     `json:"id"`
	AppID     int     `json:"app_id"`
	AdType    AdType  `json:"ad_type"`
	AccountID int     `json:"account_id"` // Owning demand source account.
	BidFloor  float64 `json:"bid_floor"`  // CPM floor, >= 0.
	Code      string  `json:"code"`       // Network-side ad unit id.
	Format    string  `json:"format"`     // BANNER/LEADERBOARD/MREC/ADAPTIVE for banner items.
}

// DemandSource is one integrated ad network. APIKey doubles as the adapter
// name the SDK reports in its adapters map.
type DemandSource struct {
	ID     int    `json:"id"`
	APIKey string `json:"api_key"`
	Name   string `json:"human_name"`
}

// DemandSourceAccount holds a publisher's credentials for one demand source.
// Extra is the network-specific JSON config blob entered in the admin UI.
type DemandSourceAccount struct {
	ID             int    `json:"id"`
	DemandSourceID int    `json:"demand_source_id"`
	Type           string `json:"type"`
	Extra          string `json:"extra"`
	Bidding        bool   `json:"bidding"`
}

// AppDemandProfile links an app to the demand source account used for a given
// adapter. AccountType mirrors the account's Type column.
type AppDemandProfile struct {
	ID          int    `json:"id"`
	AppID       int    `json:"app_id"`
	AccountType string `json:"account_type"`
	AccountID   int    `json:"account_id"`
}

// AppMmpProfile holds attribution-platform (MMP) credentials for an app. The
// most recently started profile wins when several exist.
type AppMmpProfile struct {
	ID              int    `json:"id"`
	AppID           int    `json:"app_id"`
	StartedAt       int64  `json:"started_at"` // Unix seconds.
	AppsflyerDevKey string `json:"appsflyer_dev_key"`
	AppsflyerAppID  string `json:"appsflyer_app_id"`
	AdjustAppToken  string `json:"adjust_app_token"`
	AdjustS2SToken  string `json:"adjust_s2s_token"`
}
