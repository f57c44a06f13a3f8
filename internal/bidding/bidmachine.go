package bidding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// DefaultBidmachineEndpoint is used when the account config carries no
// endpoint override.
const DefaultBidmachineEndpoint = "https://api-eu.bidmachine.io/auction/prebid"

// BidmachineBidder bids through the BidMachine exchange.
type BidmachineBidder struct {
	SellerID string
	Endpoint string
}

var _ Bidder = (*BidmachineBidder)(nil)

// NewBidmachineBidder builds the adapter from the account's resolved config.
// seller_id is required; the endpoint falls back to the EU cluster.
func NewBidmachineBidder(cfg logic.AdapterConfig) (Bidder, error) {
	sellerID, ok := cfg["seller_id"].(string)
	if !ok || sellerID == "" {
		return nil, errors.New("bidmachine: missing seller_id")
	}
	endpoint, _ := cfg["endpoint"].(string)
	if endpoint == "" {
		endpoint = DefaultBidmachineEndpoint
	}
	return &BidmachineBidder{SellerID: sellerID, Endpoint: endpoint}, nil
}

func (b *BidmachineBidder) banner(req *schema.BiddingRequest) Imp {
	size, ok := models.BannerFormatSizes[req.Imp.Format()]
	if !ok {
		size = models.BannerFormatSizes[models.FormatBanner]
	}
	w, h := size.W, size.H
	if req.Imp.IsLandscape() {
		w, h = h, w
	}
	return Imp{
		Instl:  0,
		Banner: &Banner{W: w, H: h, BType: []int{}, BAttr: []int{1, 2, 5, 8, 9, 14, 17}, Pos: 1},
	}
}

func (b *BidmachineBidder) fullscreen(req *schema.BiddingRequest, rewarded bool) Imp {
	size, ok := models.FullscreenSizes[req.Device.Type]
	if !ok {
		size = models.FullscreenSizes["PHONE"]
	}
	w, h := size.W, size.H
	if req.Imp.IsLandscape() {
		w, h = h, w
	}
	imp := Imp{
		Instl:  1,
		Banner: &Banner{W: w, H: h, BType: []int{}, BAttr: []int{}, Pos: 7},
	}
	if rewarded {
		imp.Banner.BAttr = []int{16}
		imp.Ext = map[string]any{"rewarded": 1}
	}
	return imp
}

// CreateRequest fills in the BidMachine-specific impression and seller
// identity on top of the shared base request.
func (b *BidmachineBidder) CreateRequest(base BidRequest, req *schema.BiddingRequest) (BidRequest, error) {
	var imp Imp
	switch {
	case req.Imp.Banner != nil:
		imp = b.banner(req)
	case req.Imp.Interstitial != nil:
		imp = b.fullscreen(req, false)
	case req.Imp.Rewarded != nil:
		imp = b.fullscreen(req, true)
	default:
		return base, errors.New("bidmachine: unknown impression type")
	}

	imp.ID = uuid.NewString()
	imp.DisplayManager = "BidMachine"
	imp.DisplayManagerVer = req.Adapters[logic.AdapterBidmachine].SDKVersion
	imp.Secure = 1
	imp.BidFloor = req.Imp.BidFloor

	if base.App != nil {
		app := *base.App
		app.Publisher = &Publisher{ID: b.SellerID}
		base.App = &app
	}
	base.User = BuildUser(req.Imp.Token(logic.AdapterBidmachine))
	base.Imp = []Imp{imp}
	base.Cur = []string{"USD"}

	return base, nil
}

// ExecuteRequest posts the request and captures the raw exchange. Transport
// problems land on the DemandResponse so the caller can log them.
func (b *BidmachineBidder) ExecuteRequest(ctx context.Context, client *http.Client, request BidRequest) *DemandResponse {
	dr := &DemandResponse{Demand: logic.AdapterBidmachine}

	body, err := json.Marshal(request)
	if err != nil {
		dr.Err = err
		return dr
	}
	dr.RawRequest = string(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(body))
	if err != nil {
		dr.Err = err
		return dr
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := client.Do(httpReq)
	if err != nil {
		dr.Err = err
		return dr
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		dr.Err = err
		return dr
	}
	dr.RawResponse = string(respBody)
	dr.Status = httpResp.StatusCode

	return dr
}

// ParseBids extracts the first bid of the first seat. Anything that cannot
// be parsed counts as a zero bid.
func (b *BidmachineBidder) ParseBids(dr *DemandResponse) (*DemandResponse, error) {
	switch dr.Status {
	case http.StatusNoContent:
		return dr, nil
	case http.StatusOK:
	default:
		return dr, fmt.Errorf("bidmachine: unexpected status code %d", dr.Status)
	}

	var resp BidResponse
	if err := json.Unmarshal([]byte(dr.RawResponse), &resp); err != nil {
		return dr, fmt.Errorf("bidmachine: decode response: %w", err)
	}
	if len(resp.SeatBid) == 0 || len(resp.SeatBid[0].Bid) == 0 {
		return dr, errors.New("bidmachine: response has no bids")
	}

	bid := resp.SeatBid[0].Bid[0]
	payload, _ := bid.Ext["signaldata"].(string)
	if payload == "" {
		payload = bid.AdM
	}

	dr.Price = bid.Price
	dr.Bid = &BidPayload{
		ID:       bid.ID,
		ImpID:    bid.ImpID,
		Price:    bid.Price,
		Payload:  payload,
		DemandID: logic.AdapterBidmachine,
	}

	return dr, nil
}
