package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/analytics"
	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/middleware"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// EventHandler returns the handler for one fire-and-forget tracking endpoint
// (/stats, /show, /click, /loss, /reward, /win). Events are validated the
// same way as every SDK call, enriched with the server-side geo lookup and
// pushed to the analytics sink. A sink failure never fails the request.
func (s *Server) EventHandler(eventType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromRequest(r, s.Logger)

		start := time.Now()
		const method = "POST"

		finish := func(status string) {
			s.Metrics.IncrementRequests(eventType, method, status)
			s.Metrics.RecordRequestLatency(eventType, method, time.Since(start))
		}

		adType, err := models.ParseAdType(mux.Vars(r)["ad_type"])
		if err != nil {
			finish("422")
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		var req schema.EventRequest
		if err := decodeBody(r, &req); err != nil {
			logger.Warn("decode event request", zap.Error(err), zap.String("event_type", eventType))
			finish("422")
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		rc := logic.NewRequestContext(s.ConfigStore, adType, req.App, nil)
		if !rc.Valid() {
			finish("422")
			writeError(w, http.StatusUnprocessableEntity, MsgInvalidAppKey)
			return
		}

		_, geo := s.lookupGeo(r)

		demand := req.DemandID
		ecpm := req.ECPM
		if eventType == "win" && req.ExternalWinner != nil {
			demand = req.ExternalWinner.DemandID
			ecpm = req.ExternalWinner.ECPM
		}

		ev := analytics.AdEvent{
			EventType: eventType,
			AdType:    string(adType),
			AppID:     int64(rc.ResolvedApp().ID),
			AuctionID: req.AuctionID,
			ImpID:     req.ImpID,
			Demand:    demand,
			ECPM:      ecpm,
			Country:   geo.Country,
			UserAgent: req.Device.UserAgent,
		}
		if err := s.Sink.RecordAdEvent(r.Context(), ev); err != nil && !errors.Is(err, analytics.ErrUnavailable) {
			logger.Warn("event sink write failed", zap.Error(err), zap.String("event_type", eventType))
		}

		s.Metrics.IncrementEvent(eventType)
		finish("200")
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
