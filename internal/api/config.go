package api

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/logic"
	"github.com/patrickwarner/openmediate/internal/middleware"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// ConfigHandler handles POST /config: SDK initialization settings for every
// adapter the client declares. The ad type plays no role here, only the app
// and its adapter profiles.
func (s *Server) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "ConfigHandler",
		trace.WithAttributes(
			attribute.String("http.method", "POST"),
			attribute.String("http.route", "/config"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "config"
	const method = "POST"

	finish := func(status string) {
		s.Metrics.IncrementRequests(endpoint, method, status)
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}

	var req schema.ConfigRequest
	if err := decodeBody(r, &req); err != nil {
		logger.Warn("decode config request", zap.Error(err))
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rc := logic.NewRequestContext(s.ConfigStore, "", req.App, req.Adapters)
	if !rc.Valid() {
		finish("422")
		writeError(w, http.StatusUnprocessableEntity, MsgInvalidAppKey)
		return
	}

	resp := logic.BuildConfig(s.ConfigStore, rc.ResolvedApp(), rc.Adapters)

	finish("200")
	writeJSON(w, http.StatusOK, resp)
}
