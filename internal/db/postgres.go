package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/models"
)

// Postgres wraps the configuration database connection. The mediation service
// only reads from it; all writes happen in the external admin system.
type Postgres struct {
	DB *sql.DB
}

// schemaSQL sets up the consumed tables if they don't exist. In production the
// admin system owns these; having the DDL here keeps local development and
// tests self-contained.
const schemaSQL = `CREATE TABLE IF NOT EXISTS apps (
    id SERIAL PRIMARY KEY,
    app_key TEXT NOT NULL,
    package_name TEXT NOT NULL,
    platform TEXT,
    UNIQUE (app_key, package_name)
);

CREATE TABLE IF NOT EXISTS auction_configurations (
    id SERIAL PRIMARY KEY,
    app_id INT NOT NULL REFERENCES apps(id),
    ad_type TEXT NOT NULL,
    pricefloor DOUBLE PRECISION NOT NULL DEFAULT 0,
    rounds JSONB NOT NULL DEFAULT '[]',
    external_win_notifications BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS demand_sources (
    id SERIAL PRIMARY KEY,
    api_key TEXT NOT NULL UNIQUE,
    human_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS demand_source_accounts (
    id SERIAL PRIMARY KEY,
    demand_source_id INT NOT NULL REFERENCES demand_sources(id),
    type TEXT NOT NULL,
    extra JSONB NOT NULL DEFAULT '{}',
    bidding BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS line_items (
    id SERIAL PRIMARY KEY,
    app_id INT NOT NULL REFERENCES apps(id),
    account_id INT NOT NULL REFERENCES demand_source_accounts(id),
    ad_type TEXT NOT NULL,
    bid_floor NUMERIC NOT NULL DEFAULT 0,
    code TEXT NOT NULL,
    format TEXT
);

CREATE TABLE IF NOT EXISTS app_demand_profiles (
    id SERIAL PRIMARY KEY,
    app_id INT NOT NULL REFERENCES apps(id),
    account_type TEXT NOT NULL,
    account_id INT NOT NULL REFERENCES demand_source_accounts(id)
);

CREATE TABLE IF NOT EXISTS app_mmp_profiles (
    id SERIAL PRIMARY KEY,
    app_id INT NOT NULL REFERENCES apps(id),
    started_at BIGINT NOT NULL DEFAULT 0,
    appsflyer_dev_key TEXT,
    appsflyer_app_id TEXT,
    adjust_app_token TEXT,
    adjust_s2s_token TEXT
);

CREATE INDEX IF NOT EXISTS idx_auction_configurations_app_ad_type ON auction_configurations (app_id, ad_type, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_line_items_app_ad_type ON line_items (app_id, ad_type);
CREATE INDEX IF NOT EXISTS idx_app_demand_profiles_app ON app_demand_profiles (app_id, account_type);
CREATE INDEX IF NOT EXISTS idx_app_mmp_profiles_app ON app_mmp_profiles (app_id, started_at DESC);
`

// InitPostgres connects to Postgres with connection pooling configuration.
func InitPostgres(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) (*Postgres, error) {
	// Register the otelsql wrapper for postgres
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	zap.L().Info("Connected to Postgres",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns))
	return p, nil
}

// Close terminates the Postgres connection.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		if err := p.DB.Close(); err != nil {
			zap.L().Error("postgres close", zap.Error(err))
		}
	}
}

func (p *Postgres) ensureSchema() error {
	if _, err := p.DB.ExecContext(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// LoadApps retrieves all registered apps.
func (p *Postgres) LoadApps() ([]models.App, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT id, app_key, package_name, COALESCE(platform, '') FROM apps`)
	if err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var apps []models.App
	for rows.Next() {
		var a models.App
		if err := rows.Scan(&a.ID, &a.AppKey, &a.PackageName, &a.Platform); err != nil {
			return nil, fmt.Errorf("scan app: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// LoadAuctionConfigurations retrieves all waterfall configurations. Rounds are
// stored as a JSONB array; a row with an unparseable rounds blob is skipped
// and logged rather than failing the whole reload.
func (p *Postgres) LoadAuctionConfigurations() ([]models.AuctionConfiguration, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT id, app_id, ad_type, pricefloor, rounds, external_win_notifications, created_at FROM auction_configurations`)
	if err != nil {
		return nil, fmt.Errorf("query auction configurations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var configs []models.AuctionConfiguration
	for rows.Next() {
		var cfg models.AuctionConfiguration
		var adType string
		var roundsRaw []byte
		if err := rows.Scan(&cfg.ID, &cfg.AppID, &adType, &cfg.PriceFloor, &roundsRaw, &cfg.ExternalWinNotifications, &cfg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan auction configuration: %w", err)
		}
		cfg.AdType = models.AdType(adType)
		if err := json.Unmarshal(roundsRaw, &cfg.Rounds); err != nil {
			zap.L().Warn("skipping auction configuration with bad rounds blob",
				zap.Int("id", cfg.ID), zap.Error(err))
			continue
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// LoadLineItems retrieves all line items in insertion order.
func (p *Postgres) LoadLineItems() ([]models.LineItem, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT id, app_id, account_id, ad_type, bid_floor, code, COALESCE(format, '') FROM line_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []models.LineItem
	for rows.Next() {
		var li models.LineItem
		var adType string
		if err := rows.Scan(&li.ID, &li.AppID, &li.AccountID, &adType, &li.BidFloor, &li.Code, &li.Format); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		li.AdType = models.AdType(adType)
		items = append(items, li)
	}
	return items, rows.Err()
}

// LoadDemandSources retrieves all demand sources.
func (p *Postgres) LoadDemandSources() ([]models.DemandSource, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT id, api_key, human_name FROM demand_sources`)
	if err != nil {
		return nil, fmt.Errorf("query demand sources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sources []models.DemandSource
	for rows.Next() {
		var ds models.DemandSource
		if err := rows.Scan(&ds.ID, &ds.APIKey, &ds.Name); err != nil {
			return nil, fmt.Errorf("scan demand source: %w", err)
		}
		sources = append(sources, ds)
	}
	return sources, rows.Err()
}

// LoadDemandSourceAccounts retrieves all demand source accounts.
func (p *Postgres) LoadDemandSourceAccounts() ([]models.DemandSourceAccount, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT id, demand_source_id, type, extra, bidding FROM demand_source_accounts`)
	if err != nil {
		return nil, fmt.Errorf("query demand source accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var accounts []models.DemandSourceAccount
	for rows.Next() {
		var a models.DemandSourceAccount
		if err := rows.Scan(&a.ID, &a.DemandSourceID, &a.Type, &a.Extra, &a.Bidding); err != nil {
			return nil, fmt.Errorf("scan demand source account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// LoadAppDemandProfiles retrieves all app demand profiles.
func (p *Postgres) LoadAppDemandProfiles() ([]models.AppDemandProfile, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT id, app_id, account_type, account_id FROM app_demand_profiles`)
	if err != nil {
		return nil, fmt.Errorf("query app demand profiles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var profiles []models.AppDemandProfile
	for rows.Next() {
		var pr models.AppDemandProfile
		if err := rows.Scan(&pr.ID, &pr.AppID, &pr.AccountType, &pr.AccountID); err != nil {
			return nil, fmt.Errorf("scan app demand profile: %w", err)
		}
		profiles = append(profiles, pr)
	}
	return profiles, rows.Err()
}

// LoadAppMmpProfiles retrieves all MMP attribution profiles.
func (p *Postgres) LoadAppMmpProfiles() ([]models.AppMmpProfile, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT id, app_id, started_at, COALESCE(appsflyer_dev_key, ''), COALESCE(appsflyer_app_id, ''), COALESCE(adjust_app_token, ''), COALESCE(adjust_s2s_token, '') FROM app_mmp_profiles`)
	if err != nil {
		return nil, fmt.Errorf("query app mmp profiles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var profiles []models.AppMmpProfile
	for rows.Next() {
		var pr models.AppMmpProfile
		if err := rows.Scan(&pr.ID, &pr.AppID, &pr.StartedAt, &pr.AppsflyerDevKey, &pr.AppsflyerAppID, &pr.AdjustAppToken, &pr.AdjustS2SToken); err != nil {
			return nil, fmt.Errorf("scan app mmp profile: %w", err)
		}
		profiles = append(profiles, pr)
	}
	return profiles, rows.Err()
}
