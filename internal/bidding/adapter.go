package bidding

import (
	"context"
	"net/http"

	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// Bidder is one partner integration. The three phases are split so a failure
// in any of them still yields a DemandResponse the caller can log.
type Bidder interface {
	// CreateRequest specializes the shared base request for this partner:
	// impression sizing, token placement, seller identity.
	CreateRequest(base BidRequest, req *schema.BiddingRequest) (BidRequest, error)

	// ExecuteRequest posts the bid request to the partner endpoint. Transport
	// errors are recorded on the returned DemandResponse, never returned.
	ExecuteRequest(ctx context.Context, client *http.Client, request BidRequest) *DemandResponse

	// ParseBids extracts the winning bid from the raw partner response.
	ParseBids(dr *DemandResponse) (*DemandResponse, error)
}

// BidderBuilder constructs a Bidder from the adapter's resolved config.
type BidderBuilder func(cfg logic.AdapterConfig) (Bidder, error)

// builders registers every supported bidding integration by adapter name.
var builders = map[string]BidderBuilder{
	logic.AdapterBidmachine: NewBidmachineBidder,
}

// SupportedDemand reports whether a bidding integration exists for the name.
func SupportedDemand(name string) bool {
	_, ok := builders[name]
	return ok
}

// DemandResponse is the normalized outcome of one partner exchange. Every
// response is logged whether or not it wins.
type DemandResponse struct {
	Demand      string      `json:"demand"`
	RawRequest  string      `json:"raw_request"`
	RawResponse string      `json:"raw_response"`
	Status      int         `json:"status"`
	Price       float64     `json:"price"`
	Bid         *BidPayload `json:"bid"`

	Err       error `json:"-"`
	LatencyMS int64 `json:"-"`
}

// IsBid reports whether the partner returned a priced bid.
func (dr *DemandResponse) IsBid() bool {
	return dr.Bid != nil && dr.Price > 0
}

// Outcome classifies the exchange for metrics and fill-rate counters.
func (dr *DemandResponse) Outcome() string {
	switch {
	case dr.Err != nil:
		return "error"
	case dr.IsBid():
		return "bid"
	default:
		return "no_bid"
	}
}

// BidPayload is the bid shape forwarded to the SDK.
type BidPayload struct {
	ID       string  `json:"id"`
	ImpID    string  `json:"impid"`
	Price    float64 `json:"price"`
	Payload  string  `json:"payload"`
	DemandID string  `json:"demand_id"`
}
