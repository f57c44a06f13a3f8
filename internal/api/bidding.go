package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/bidding"
	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/middleware"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// biddingResponse is the success shape of the bidding endpoint.
type biddingResponse struct {
	Bid *bidding.BidPayload `json:"bid"`
}

// BiddingHandler handles POST /bidding/{ad_type}: it fans the impression out
// to the eligible bidding partners and returns the winning bid, or 204 when
// nobody bids above zero.
func (s *Server) BiddingHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "BiddingHandler",
		trace.WithAttributes(
			attribute.String("http.method", "POST"),
			attribute.String("http.route", "/bidding/{ad_type}"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "bidding"
	const method = "POST"

	finish := func(status string) {
		s.Metrics.IncrementRequests(endpoint, method, status)
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}

	adType, err := models.ParseAdType(mux.Vars(r)["ad_type"])
	if err != nil {
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req schema.BiddingRequest
	if err := decodeBody(r, &req); err != nil {
		logger.Warn("decode bidding request", zap.Error(err))
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// The impression is the one piece of shared context the fan-out cannot
	// proceed without.
	if req.Imp.ID == "" && req.Imp.Demands == nil {
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, "Impression is missing")
		return
	}

	rc := logic.NewRequestContext(s.ConfigStore, adType, req.App, req.Adapters)
	if !rc.Valid() {
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, MsgInvalidAppKey)
		return
	}

	ip, geo := s.lookupGeo(r)
	result := s.Orchestrator.HoldAuction(ctx, logger, rc.ResolvedApp(), adType, &req, ip, geo)

	winner := result.Winner()
	if winner == nil {
		s.Metrics.IncrementNoBids()
		finish("204")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.Metrics.RecordWinningBidPrice(winner.Price)
	logger.Info("bidding won",
		zap.String("ad_type", string(adType)),
		zap.String("demand", winner.Demand),
		zap.Float64("price", winner.Price),
	)
	finish("200")
	writeJSON(w, http.StatusOK, biddingResponse{Bid: winner.Bid})
}
