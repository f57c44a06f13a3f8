package logic

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// Adapter names with dedicated config shaping. Everything else passes its
// stored extra config through unchanged.
const (
	AdapterAppsflyer  = "appsflyer"
	AdapterAdjust     = "adjust"
	AdapterApplovin   = "applovin"
	AdapterBidmachine = "bidmachine"
)

// AdapterConfig is one adapter's SDK initialization settings.
type AdapterConfig map[string]any

// FetchAdaptersConfig resolves per-adapter init settings for every adapter
// the SDK declared. The result contains exactly the requested adapter names;
// an adapter with no server-side profile maps to an empty object, never a
// missing key.
func FetchAdaptersConfig(store models.ConfigStore, app *models.App, adapters schema.Adapters) map[string]AdapterConfig {
	out := make(map[string]AdapterConfig, len(adapters))
	for name := range adapters {
		switch name {
		case AdapterAppsflyer, AdapterAdjust:
			out[name] = mmpConfig(store, app, name)
		default:
			out[name] = demandConfig(store, app, name)
		}
	}
	return out
}

// mmpConfig resolves attribution-platform credentials from the app's most
// recently started MMP profile.
func mmpConfig(store models.ConfigStore, app *models.App, name string) AdapterConfig {
	profile := store.GetMmpProfile(app.ID)
	if profile == nil {
		return AdapterConfig{}
	}
	switch name {
	case AdapterAppsflyer:
		return AdapterConfig{
			"dev_key": profile.AppsflyerDevKey,
			"app_id":  profile.AppsflyerAppID,
		}
	case AdapterAdjust:
		return AdapterConfig{
			"app_token": profile.AdjustAppToken,
			"s2s_token": profile.AdjustS2SToken,
		}
	}
	return AdapterConfig{}
}

// demandConfig resolves a demand adapter's settings from the account extra
// blob linked through the app's demand profile.
func demandConfig(store models.ConfigStore, app *models.App, name string) AdapterConfig {
	profile := store.GetDemandProfile(app.ID, name)
	if profile == nil {
		return AdapterConfig{}
	}
	account := store.GetAccount(profile.AccountID)
	if account == nil {
		return AdapterConfig{}
	}
	extra := decodeExtra(account.Extra, name)

	switch name {
	case AdapterApplovin:
		// The SDK gets only the key, renamed to app_key.
		return AdapterConfig{"app_key": extra["api_key"]}
	case AdapterBidmachine:
		out := AdapterConfig{}
		for _, key := range []string{"seller_id", "endpoint", "mediation_config"} {
			if v, ok := extra[key]; ok {
				out[key] = v
			}
		}
		return out
	default:
		return extra
	}
}

func decodeExtra(raw, adapter string) AdapterConfig {
	if raw == "" {
		return AdapterConfig{}
	}
	var extra AdapterConfig
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		zap.L().Warn("bad account extra config", zap.String("adapter", adapter), zap.Error(err))
		return AdapterConfig{}
	}
	if extra == nil {
		extra = AdapterConfig{}
	}
	return extra
}
