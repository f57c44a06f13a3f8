package bidding

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

func biddingRequest(adType models.AdType, format string) *schema.BiddingRequest {
	req := &schema.BiddingRequest{
		Adapters: schema.Adapters{
			"bidmachine": schema.AdapterInfo{Version: "0.4.0", SDKVersion: "2.1.0"},
		},
		Imp: schema.Imp{
			ID:        "imp-1",
			AuctionID: "auction-1",
			BidFloor:  1.25,
			Demands: map[string]map[string]any{
				"bidmachine": {"token": "signal-token"},
			},
		},
	}
	req.App = schema.App{Bundle: "com.example.game", Version: "1.2.3"}
	req.Device = schema.Device{Type: "PHONE"}
	switch adType {
	case models.AdTypeBanner:
		req.Imp.Banner = &schema.BannerAdObject{Format: format}
	case models.AdTypeInterstitial:
		req.Imp.Interstitial = &schema.InterstitialAdObject{}
	case models.AdTypeRewarded:
		req.Imp.Rewarded = &schema.RewardedAdObject{}
	}
	return req
}

func newTestBidder(t *testing.T) *BidmachineBidder {
	t.Helper()
	bidder, err := NewBidmachineBidder(logic.AdapterConfig{"seller_id": "42"})
	require.NoError(t, err)
	return bidder.(*BidmachineBidder)
}

func TestNewBidmachineBidder(t *testing.T) {
	_, err := NewBidmachineBidder(logic.AdapterConfig{})
	assert.Error(t, err)

	bidder, err := NewBidmachineBidder(logic.AdapterConfig{"seller_id": "42"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBidmachineEndpoint, bidder.(*BidmachineBidder).Endpoint)

	bidder, err = NewBidmachineBidder(logic.AdapterConfig{"seller_id": "42", "endpoint": "https://override.test"})
	require.NoError(t, err)
	assert.Equal(t, "https://override.test", bidder.(*BidmachineBidder).Endpoint)
}

func TestBidmachineCreateRequestBanner(t *testing.T) {
	testCases := []struct {
		name        string
		format      string
		orientation string
		wantW       int
		wantH       int
	}{
		{"banner", models.FormatBanner, "", 320, 50},
		{"leaderboard", models.FormatLeaderboard, "", 728, 90},
		{"mrec", models.FormatMREC, "", 300, 250},
		{"adaptive", models.FormatAdaptive, "", 0, 50},
		{"unknown format falls back", "WEIRD", "", 320, 50},
		{"landscape swaps axes", models.FormatBanner, "LANDSCAPE", 50, 320},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bidder := newTestBidder(t)
			req := biddingRequest(models.AdTypeBanner, tc.format)
			req.Imp.Orientation = tc.orientation

			base := BidRequest{ID: "req-1", App: &App{ID: "1", Bundle: "com.example.game"}}
			out, err := bidder.CreateRequest(base, req)
			require.NoError(t, err)

			require.Len(t, out.Imp, 1)
			imp := out.Imp[0]
			assert.Equal(t, 0, imp.Instl)
			require.NotNil(t, imp.Banner)
			assert.Equal(t, tc.wantW, imp.Banner.W)
			assert.Equal(t, tc.wantH, imp.Banner.H)
		})
	}
}

func TestBidmachineCreateRequestFullscreen(t *testing.T) {
	bidder := newTestBidder(t)

	req := biddingRequest(models.AdTypeInterstitial, "")
	out, err := bidder.CreateRequest(BidRequest{App: &App{}}, req)
	require.NoError(t, err)
	imp := out.Imp[0]
	assert.Equal(t, 1, imp.Instl)
	assert.Equal(t, 320, imp.Banner.W)
	assert.Equal(t, 480, imp.Banner.H)
	assert.Nil(t, imp.Ext)

	req.Device.Type = "TABLET"
	out, err = bidder.CreateRequest(BidRequest{App: &App{}}, req)
	require.NoError(t, err)
	assert.Equal(t, 768, out.Imp[0].Banner.W)
	assert.Equal(t, 1024, out.Imp[0].Banner.H)

	rewarded := biddingRequest(models.AdTypeRewarded, "")
	out, err = bidder.CreateRequest(BidRequest{App: &App{}}, rewarded)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Imp[0].Instl)
	assert.Equal(t, []int{16}, out.Imp[0].Banner.BAttr)
	assert.Equal(t, map[string]any{"rewarded": 1}, out.Imp[0].Ext)
}

func TestBidmachineCreateRequestIdentity(t *testing.T) {
	bidder := newTestBidder(t)
	req := biddingRequest(models.AdTypeBanner, models.FormatBanner)

	base := BidRequest{ID: "req-1", App: &App{ID: "1", Bundle: "com.example.game"}}
	out, err := bidder.CreateRequest(base, req)
	require.NoError(t, err)

	require.NotNil(t, out.App.Publisher)
	assert.Equal(t, "42", out.App.Publisher.ID)
	// The shared base request must not pick up partner identity.
	assert.Nil(t, base.App.Publisher)

	require.NotNil(t, out.User)
	require.Len(t, out.User.Data, 1)
	require.Len(t, out.User.Data[0].Segment, 1)
	assert.Equal(t, "signal-token", out.User.Data[0].Segment[0].Signal)

	imp := out.Imp[0]
	assert.Equal(t, "BidMachine", imp.DisplayManager)
	assert.Equal(t, "2.1.0", imp.DisplayManagerVer)
	assert.Equal(t, 1, imp.Secure)
	assert.Equal(t, 1.25, imp.BidFloor)
	assert.NotEmpty(t, imp.ID)
	assert.Equal(t, []string{"USD"}, out.Cur)
}

func TestBidmachineCreateRequestUnknownImpression(t *testing.T) {
	bidder := newTestBidder(t)
	req := biddingRequest(models.AdTypeBanner, models.FormatBanner)
	req.Imp.Banner = nil

	_, err := bidder.CreateRequest(BidRequest{}, req)
	assert.Error(t, err)
}

func TestBidmachineParseBids(t *testing.T) {
	bidder := newTestBidder(t)

	t.Run("no content", func(t *testing.T) {
		dr := &DemandResponse{Demand: "bidmachine", Status: http.StatusNoContent}
		out, err := bidder.ParseBids(dr)
		require.NoError(t, err)
		assert.Nil(t, out.Bid)
		assert.Zero(t, out.Price)
	})

	t.Run("client error", func(t *testing.T) {
		dr := &DemandResponse{Demand: "bidmachine", Status: http.StatusBadRequest, RawResponse: `{"error":"nope"}`}
		_, err := bidder.ParseBids(dr)
		assert.Error(t, err)
		assert.Zero(t, dr.Price)
	})

	t.Run("success", func(t *testing.T) {
		body := `{"id":"resp-1","seatbid":[{"seat":"3","bid":[{"id":"bid-1","impid":"imp-1","price":5.5,"ext":{"signaldata":"payload-blob"}}]}]}`
		dr := &DemandResponse{Demand: "bidmachine", Status: http.StatusOK, RawResponse: body}
		out, err := bidder.ParseBids(dr)
		require.NoError(t, err)
		assert.Equal(t, 5.5, out.Price)
		require.NotNil(t, out.Bid)
		assert.Equal(t, &BidPayload{ID: "bid-1", ImpID: "imp-1", Price: 5.5, Payload: "payload-blob", DemandID: "bidmachine"}, out.Bid)
	})

	t.Run("malformed body", func(t *testing.T) {
		dr := &DemandResponse{Demand: "bidmachine", Status: http.StatusOK, RawResponse: "not-json"}
		_, err := bidder.ParseBids(dr)
		assert.Error(t, err)
		assert.Zero(t, dr.Price)
	})

	t.Run("empty seatbid", func(t *testing.T) {
		dr := &DemandResponse{Demand: "bidmachine", Status: http.StatusOK, RawResponse: `{"id":"resp-1","seatbid":[]}`}
		_, err := bidder.ParseBids(dr)
		assert.Error(t, err)
	})
}
