package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avct/uasurfer"
	"go.uber.org/zap"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

// EventSink receives SDK ad events and demand responses for offline analysis.
// Implementations should return ErrUnavailable when the underlying storage is
// not configured rather than failing the request path.
type EventSink interface {
	// RecordAdEvent records a single SDK lifecycle event (show, click, reward,
	// loss, win, stats round summary).
	RecordAdEvent(ctx context.Context, ev AdEvent) error
	// RecordDemandResult records the outcome of one demand partner exchange,
	// including the raw request and response bodies.
	RecordDemandResult(ctx context.Context, dr DemandResult) error
}

// ErrUnavailable is returned when the analytics DB is not configured.
var ErrUnavailable = fmt.Errorf("analytics unavailable")

// AdEvent mirrors a row in the ad_events table.
type AdEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	AdType    string    `json:"ad_type"`
	AppID     int64     `json:"app_id"`
	AuctionID string    `json:"auction_id"`
	ImpID     string    `json:"imp_id"`
	Demand    string    `json:"demand"`
	ECPM      float64   `json:"ecpm"`
	Country   string    `json:"country"`
	OS        string    `json:"os"`
	Browser   string    `json:"browser"`
	UserAgent string    `json:"-"`
}

// DemandResult mirrors a row in the demand_results table.
type DemandResult struct {
	Timestamp   time.Time `json:"timestamp"`
	AdType      string    `json:"ad_type"`
	AppID       int64     `json:"app_id"`
	AuctionID   string    `json:"auction_id"`
	RoundID     string    `json:"round_id"`
	Demand      string    `json:"demand"`
	Status      string    `json:"status"`
	Price       float64   `json:"price"`
	LatencyMS   int64     `json:"latency_ms"`
	RawRequest  string    `json:"raw_request"`
	RawResponse string    `json:"raw_response"`
}

// Analytics wraps a ClickHouse DB connection.
type Analytics struct {
	DB *sql.DB
}

var _ EventSink = (*Analytics)(nil)

// InitClickHouse connects to ClickHouse and ensures the event tables exist.
func InitClickHouse(dsn string) (*Analytics, error) {
	ch, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	ch.SetMaxOpenConns(25)
	if err := ch.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	createEvents := `CREATE TABLE IF NOT EXISTS ad_events (
       timestamp  DateTime,
       event_type String,
       ad_type    String,
       app_id     Int64,
       auction_id String,
       imp_id     String,
       demand     String,
       ecpm       Float64,
       country    String,
       os         String,
       browser    String
   ) ENGINE=MergeTree() ORDER BY (event_type, timestamp)`
	if _, err := ch.ExecContext(context.Background(), createEvents); err != nil {
		return nil, fmt.Errorf("clickhouse create ad_events: %w", err)
	}
	createResults := `CREATE TABLE IF NOT EXISTS demand_results (
       timestamp    DateTime,
       ad_type      String,
       app_id       Int64,
       auction_id   String,
       round_id     String,
       demand       String,
       status       String,
       price        Float64,
       latency_ms   Int64,
       raw_request  String,
       raw_response String
   ) ENGINE=MergeTree() ORDER BY (demand, timestamp)`
	if _, err := ch.ExecContext(context.Background(), createResults); err != nil {
		return nil, fmt.Errorf("clickhouse create demand_results: %w", err)
	}

	zap.L().Info("Connected to ClickHouse")
	return &Analytics{DB: ch}, nil
}

// RecordAdEvent inserts a single event row into the ad_events table.
func (a *Analytics) RecordAdEvent(ctx context.Context, ev AdEvent) error {
	if a == nil || a.DB == nil {
		return ErrUnavailable
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if ev.UserAgent != "" && (ev.OS == "" || ev.Browser == "") {
		os, browser := parseUserAgent(ev.UserAgent)
		if ev.OS == "" {
			ev.OS = os
		}
		if ev.Browser == "" {
			ev.Browser = browser
		}
	}

	stmt := `INSERT INTO ad_events (timestamp, event_type, ad_type, app_id, auction_id, imp_id, demand, ecpm, country, os, browser) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := a.DB.ExecContext(ctx, stmt, ev.Timestamp, ev.EventType, ev.AdType, ev.AppID, ev.AuctionID, ev.ImpID, ev.Demand, ev.ECPM, ev.Country, ev.OS, ev.Browser); err != nil {
		zap.L().Error("clickhouse insert failed", zap.Error(err), zap.String("event_type", ev.EventType))
		return fmt.Errorf("insert %s event: %w", ev.EventType, err)
	}
	return nil
}

// RecordDemandResult inserts a single row into the demand_results table.
func (a *Analytics) RecordDemandResult(ctx context.Context, dr DemandResult) error {
	if a == nil || a.DB == nil {
		return ErrUnavailable
	}
	if dr.Timestamp.IsZero() {
		dr.Timestamp = time.Now()
	}

	stmt := `INSERT INTO demand_results (timestamp, ad_type, app_id, auction_id, round_id, demand, status, price, latency_ms, raw_request, raw_response) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := a.DB.ExecContext(ctx, stmt, dr.Timestamp, dr.AdType, dr.AppID, dr.AuctionID, dr.RoundID, dr.Demand, dr.Status, dr.Price, dr.LatencyMS, dr.RawRequest, dr.RawResponse); err != nil {
		zap.L().Error("clickhouse insert failed", zap.Error(err), zap.String("demand", dr.Demand))
		return fmt.Errorf("insert demand result: %w", err)
	}
	return nil
}

// parseUserAgent extracts coarse OS and browser names from a raw UA string.
func parseUserAgent(ua string) (string, string) {
	parsed := uasurfer.Parse(ua)
	return parsed.OS.Name.StringTrimPrefix(), parsed.Browser.Name.StringTrimPrefix()
}

// Close terminates the ClickHouse connection.
func (a *Analytics) Close() {
	if a != nil && a.DB != nil {
		if err := a.DB.Close(); err != nil {
			zap.L().Error("clickhouse close", zap.Error(err))
		}
	}
}
