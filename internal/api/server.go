package api

import (
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/analytics"
	"github.com/patrickwarner/openmediate/internal/bidding"
	"github.com/patrickwarner/openmediate/internal/config"
	"github.com/patrickwarner/openmediate/internal/db"
	"github.com/patrickwarner/openmediate/internal/geoip"
	"github.com/patrickwarner/openmediate/internal/middleware"
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/observability"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger       *zap.Logger
	Store        *db.RedisStore
	PG           *db.Postgres
	ConfigStore  models.ConfigStore
	Sink         analytics.EventSink
	GeoIP        *geoip.GeoIP
	Metrics      observability.MetricsRegistry
	Config       config.Config
	Orchestrator *bidding.Orchestrator

	reloadMu sync.Mutex
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, store *db.RedisStore, pg *db.Postgres, configStore models.ConfigStore, sink analytics.EventSink, geo *geoip.GeoIP, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	return &Server{
		Logger:       logger,
		Store:        store,
		PG:           pg,
		ConfigStore:  configStore,
		Sink:         sink,
		GeoIP:        geo,
		Metrics:      metrics,
		Config:       cfg,
		Orchestrator: bidding.NewOrchestrator(configStore, sink, metrics, store, cfg.BiddingTimeout),
	}
}

// Routes registers the SDK-facing endpoints on the router. Operational
// endpoints (/healthz, /reload, /metrics) are registered by the caller so
// they can skip the SDK header checks.
func (s *Server) Routes(r *mux.Router) {
	sdk := r.PathPrefix("/").Subrouter()
	sdk.Use(Recover(s.Logger))
	sdk.Use(middleware.WithTraceLogger(s.Logger))
	sdk.Use(RequireVersionHeader)

	sdk.HandleFunc("/config", s.ConfigHandler).Methods(http.MethodPost)
	sdk.HandleFunc("/auction/{ad_type}", s.AuctionHandler).Methods(http.MethodPost)
	sdk.HandleFunc("/bidding/{ad_type}", s.BiddingHandler).Methods(http.MethodPost)

	for _, eventType := range []string{"stats", "show", "click", "loss", "reward", "win"} {
		sdk.HandleFunc("/"+eventType+"/{ad_type}", s.EventHandler(eventType)).Methods(http.MethodPost)
	}
}

// Reload replaces the configuration snapshot from Postgres. Concurrent
// reload triggers (ticker, pubsub, admin endpoint) are serialized.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	apps, err := s.PG.LoadApps()
	if err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}
	configs, err := s.PG.LoadAuctionConfigurations()
	if err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}
	items, err := s.PG.LoadLineItems()
	if err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}
	sources, err := s.PG.LoadDemandSources()
	if err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}
	accounts, err := s.PG.LoadDemandSourceAccounts()
	if err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}
	demandProfiles, err := s.PG.LoadAppDemandProfiles()
	if err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}
	mmpProfiles, err := s.PG.LoadAppMmpProfiles()
	if err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}

	if err := s.ConfigStore.ReloadAll(apps, configs, items, accounts, sources, demandProfiles, mmpProfiles); err != nil {
		s.Metrics.IncrementReloads("error")
		return err
	}

	s.Metrics.IncrementReloads("success")
	s.Logger.Info("configuration reloaded",
		zap.Int("apps", len(apps)),
		zap.Int("configurations", len(configs)),
		zap.Int("line_items", len(items)),
	)
	return nil
}

// lookupGeo resolves the request origin, tolerating a missing GeoIP database.
func (s *Server) lookupGeo(r *http.Request) (string, geoip.Data) {
	ip := clientIP(r)
	if s.GeoIP == nil {
		return ip, geoip.Data{}
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip, geoip.Data{}
	}
	return ip, s.GeoIP.Lookup(parsed)
}
