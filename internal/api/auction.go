package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/middleware"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

var tracer = otel.Tracer("openmediate")

// AuctionHandler handles POST /auction/{ad_type}: it resolves the app,
// filters the waterfall to the SDK's adapters and returns the assembled
// auction payload.
func (s *Server) AuctionHandler(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "AuctionHandler",
		trace.WithAttributes(
			attribute.String("http.method", "POST"),
			attribute.String("http.route", "/auction/{ad_type}"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "auction"
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

	var req schema.AuctionRequest
	if err := decodeBody(r, &req); err != nil {
		logger.Warn("decode auction request", zap.Error(err))
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rc := logic.NewRequestContext(s.ConfigStore, adType, req.App, req.Adapters)
	if !rc.Valid() {
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, MsgInvalidAppKey)
		return
	}

	resp, err := logic.BuildAuction(s.ConfigStore, rc.ResolvedApp(), adType, &req)
	if errors.Is(err, logic.ErrNoAds) {
		s.Metrics.IncrementNoAds()
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, MsgNoAdsFound)
		return
	}
	if err != nil {
		logger.Error("build auction", zap.Error(err))
		finish("500")
		writeError(w, http.StatusInternalServerError, MsgInternalServerError)
		return
	}

	logger.Info("auction served",
		zap.String("ad_type", string(adType)),
		zap.String("auction_id", resp.AuctionID),
		zap.Int("rounds", len(resp.Rounds)),
		zap.Int("line_items", len(resp.LineItems)),
	)
	finish("200")
	writeJSON(w, http.StatusOK, resp)
}
