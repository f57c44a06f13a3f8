package logic

import (
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// ConfigTMax is the SDK initialization timeout in milliseconds.
const ConfigTMax = 5000

// ConfigResponse is the body of the SDK config call. It is always a full
// object: a request with zero resolvable adapters still gets init.adapters
// populated with empty objects for every declared adapter.
type ConfigResponse struct {
	Init       InitConfig `json:"init"`
	Placements []any      `json:"placements"`
	Token      string     `json:"token"`
	SegmentID  string     `json:"segment_id"`
}

// InitConfig drives SDK startup.
type InitConfig struct {
	TMax     int                      `json:"tmax"`
	Adapters map[string]AdapterConfig `json:"adapters"`
}

// BuildConfig assembles the SDK config response for a registered app.
func BuildConfig(store models.ConfigStore, app *models.App, adapters schema.Adapters) *ConfigResponse {
	return &ConfigResponse{
		Init: InitConfig{
			TMax:     ConfigTMax,
			Adapters: FetchAdaptersConfig(store, app, adapters),
		},
		Placements: []any{},
		Token:      "{}",
		SegmentID:  "",
	}
}
