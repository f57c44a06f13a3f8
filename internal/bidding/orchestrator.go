package bidding

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/analytics"
	"github.com/patrickwarner/openmediate/internal/db"
	"github.com/patrickwarner/openmediate/internal/geoip"
	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/observability"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// DefaultPartnerTimeout bounds each outbound partner call.
const DefaultPartnerTimeout = 3 * time.Second

// Orchestrator fans one impression out to every eligible bidding partner and
// aggregates their responses. Partner failures never fail the auction; they
// contribute a zero bid and get logged like everything else.
type Orchestrator struct {
	Store   models.ConfigStore
	Sink    analytics.EventSink
	Metrics observability.MetricsRegistry
	Redis   *db.RedisStore
	Client  *http.Client
	Timeout time.Duration
}

// NewOrchestrator wires the orchestrator with a partner-bounded HTTP client.
func NewOrchestrator(store models.ConfigStore, sink analytics.EventSink, metrics observability.MetricsRegistry, redis *db.RedisStore, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultPartnerTimeout
	}
	return &Orchestrator{
		Store:   store,
		Sink:    sink,
		Metrics: metrics,
		Redis:   redis,
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

// AuctionResult collects every partner outcome for one impression.
type AuctionResult struct {
	Bids []DemandResponse
}

// MaxPrice returns the highest price across all outcomes, or 0.
func (r AuctionResult) MaxPrice() float64 {
	max := 0.0
	for _, bid := range r.Bids {
		if bid.Price > max {
			max = bid.Price
		}
	}
	return max
}

// Winner returns the first outcome holding the strictly highest positive
// price, or nil when nobody bid.
func (r AuctionResult) Winner() *DemandResponse {
	var winner *DemandResponse
	for i := range r.Bids {
		if r.Bids[i].Price > 0 && (winner == nil || r.Bids[i].Price > winner.Price) {
			winner = &r.Bids[i]
		}
	}
	return winner
}

// HoldAuction runs the bid request against every demand the impression
// declares a token for, provided the SDK ships the adapter and a bidding
// integration exists. An impression with no usable demands yields an empty
// result, not an error.
func (o *Orchestrator) HoldAuction(ctx context.Context, logger *zap.Logger, app *models.App, adType models.AdType, req *schema.BiddingRequest, ip string, geo geoip.Data) AuctionResult {
	demands := o.eligibleDemands(req)
	if len(demands) == 0 {
		return AuctionResult{}
	}

	configs := logic.FetchAdaptersConfig(o.Store, app, req.Adapters)
	base := o.baseRequest(app, req, ip, geo)

	callCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	results := make(chan DemandResponse)
	var wg sync.WaitGroup
	for _, demand := range demands {
		wg.Add(1)
		go func(demand string) {
			defer wg.Done()
			results <- *o.processDemand(callCtx, demand, configs[demand], base, req)
		}(demand)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	result := AuctionResult{Bids: make([]DemandResponse, 0, len(demands))}
	for dr := range results {
		o.logOutcome(ctx, logger, app, adType, req, dr)
		result.Bids = append(result.Bids, dr)
	}
	return result
}

// eligibleDemands intersects the impression's tokened demands with the SDK's
// declared adapters and the server's bidding integrations.
func (o *Orchestrator) eligibleDemands(req *schema.BiddingRequest) []string {
	var out []string
	for demand := range req.Imp.Demands {
		if req.Imp.Token(demand) == "" {
			continue
		}
		if !req.Adapters.Has(demand) {
			continue
		}
		if !SupportedDemand(demand) {
			continue
		}
		out = append(out, demand)
	}
	return out
}

// baseRequest builds the partner-agnostic part of the bid request once; each
// adapter copies and specializes it.
func (o *Orchestrator) baseRequest(app *models.App, req *schema.BiddingRequest, ip string, geo geoip.Data) BidRequest {
	test := 0
	if req.Test {
		test = 1
	}
	tmax := req.TMax
	if tmax <= 0 {
		tmax = int(o.Timeout.Milliseconds())
	}
	return BidRequest{
		ID:     uuid.NewString(),
		Test:   test,
		At:     1,
		TMax:   tmax,
		App:    &App{ID: strconv.Itoa(app.ID), Bundle: req.App.Bundle, Ver: req.App.Version},
		Device: BuildDevice(req.Device, req.User, ip, geo),
		Regs:   BuildRegs(req.GetRegulations()),
	}
}

// processDemand runs the three adapter phases and always produces a loggable
// DemandResponse.
func (o *Orchestrator) processDemand(ctx context.Context, demand string, cfg logic.AdapterConfig, base BidRequest, req *schema.BiddingRequest) *DemandResponse {
	build := builders[demand]
	bidder, err := build(cfg)
	if err != nil {
		return &DemandResponse{Demand: demand, Err: err}
	}

	bidRequest, err := bidder.CreateRequest(base, req)
	if err != nil {
		return &DemandResponse{Demand: demand, Err: err}
	}

	start := time.Now()
	dr := bidder.ExecuteRequest(ctx, o.Client, bidRequest)
	elapsed := time.Since(start)
	dr.LatencyMS = elapsed.Milliseconds()
	o.Metrics.RecordDemandRequestLatency(demand, elapsed)
	if dr.Err != nil {
		return dr
	}

	dr, err = bidder.ParseBids(dr)
	dr.Err = err
	return dr
}

// logOutcome records every partner outcome regardless of who wins: struct
// log, analytics row, fill-rate counters.
func (o *Orchestrator) logOutcome(ctx context.Context, logger *zap.Logger, app *models.App, adType models.AdType, req *schema.BiddingRequest, dr DemandResponse) {
	logger.Info("demand response",
		zap.String("demand", dr.Demand),
		zap.String("outcome", dr.Outcome()),
		zap.Int("status", dr.Status),
		zap.Float64("price", dr.Price),
		zap.Error(dr.Err),
	)

	o.Metrics.IncrementDemandRequests(dr.Demand, dr.Outcome())

	if o.Redis != nil {
		if err := o.Redis.IncrementDemandResult(dr.Demand, dr.Outcome()); err != nil {
			logger.Warn("demand counter update failed", zap.Error(err))
		}
	}

	if o.Sink != nil {
		row := analytics.DemandResult{
			AdType:      string(adType),
			AppID:       int64(app.ID),
			AuctionID:   req.Imp.AuctionID,
			RoundID:     req.Imp.RoundID,
			Demand:      dr.Demand,
			Status:      dr.Outcome(),
			Price:       dr.Price,
			LatencyMS:   dr.LatencyMS,
			RawRequest:  dr.RawRequest,
			RawResponse: dr.RawResponse,
		}
		if err := o.Sink.RecordDemandResult(ctx, row); err != nil && !errors.Is(err, analytics.ErrUnavailable) {
			logger.Warn("demand result sink write failed", zap.Error(err))
		}
	}
}
