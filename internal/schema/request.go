// Package schema defines the JSON payloads mobile SDKs send to the mediation
// endpoints. Fields map 1:1 to the SDK wire format; accessors normalize the
// optional parts so handlers never see nil maps.
package schema

// BaseRequest carries the context common to every SDK call.
type BaseRequest struct {
	Device      Device       `json:"device"`
	Session     Session      `json:"session"`
	App         App          `json:"app"`
	User        User         `json:"user"`
	Geo         *Geo         `json:"geo,omitempty"`
	Regulations *Regulations `json:"regs,omitempty"`
	Ext         string       `json:"ext,omitempty"`
	Token       string       `json:"token,omitempty"`
	SegmentID   string       `json:"segment_id,omitempty"`
}

// GetRegulations never returns nil.
func (r *BaseRequest) GetRegulations() Regulations {
	if r.Regulations == nil {
		return Regulations{}
	}
	return *r.Regulations
}

// App is the client-reported application identity.
type App struct {
	Bundle           string `json:"bundle"`
	Key              string `json:"key"`
	Framework        string `json:"framework"`
	Version          string `json:"version"`
	FrameworkVersion string `json:"framework_version,omitempty"`
	PluginVersion    string `json:"plugin_version,omitempty"`
	SDKVersion       string `json:"sdk_version,omitempty"`
}

// Device mirrors the SDK's device object. ConnectionType and Type use the
// SDK's enum spellings (WIFI, CELLULAR_4_G, PHONE, TABLET, ...).
type Device struct {
	Geo             *Geo    `json:"geo,omitempty"`
	UserAgent       string  `json:"ua"`
	Manufacturer    string  `json:"make"`
	Model           string  `json:"model"`
	OS              string  `json:"os"`
	OSVersion       string  `json:"osv"`
	HardwareVersion string  `json:"hwv"`
	Height          int     `json:"h"`
	Width           int     `json:"w"`
	PPI             int     `json:"ppi"`
	PXRatio         float64 `json:"pxratio"`
	JS              int     `json:"js"`
	Language        string  `json:"language"`
	Carrier         string  `json:"carrier,omitempty"`
	MCCMNC          string  `json:"mccmnc,omitempty"`
	ConnectionType  string  `json:"connection_type"`
	Type            string  `json:"type"`
}

// User carries the advertising identifiers and consent state.
type User struct {
	IDFA                        string         `json:"idfa"`
	TrackingAuthorizationStatus string         `json:"tracking_authorization_status,omitempty"`
	IDFV                        string         `json:"idfv,omitempty"`
	IDG                         string         `json:"idg,omitempty"`
	Consent                     map[string]any `json:"consent,omitempty"`
	COPPA                       bool           `json:"coppa,omitempty"`
}

// Session identifies one SDK launch.
type Session struct {
	ID               string  `json:"id"`
	LaunchTS         int64   `json:"launch_ts,omitempty"`
	RAMUsed          int64   `json:"ram_used,omitempty"`
	RAMSize          int64   `json:"ram_size,omitempty"`
	StorageFree      int64   `json:"storage_free,omitempty"`
	StorageUsed      int64   `json:"storage_used,omitempty"`
	Battery          float64 `json:"battery,omitempty"`
	StartMonotonicTS int64   `json:"start_monotonic_ts,omitempty"`
	MonotonicTS      int64   `json:"monotonic_ts,omitempty"`
}

// Geo is the client-supplied location, used only when the IP lookup fails.
type Geo struct {
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	LastFix   int64   `json:"lastfix,omitempty"`
	Country   string  `json:"country,omitempty"`
	City      string  `json:"city,omitempty"`
	ZIP       string  `json:"zip,omitempty"`
	UTCOffset int     `json:"utcoffset,omitempty"`
}

// Regulations carries the COPPA/GDPR flags forwarded to demand partners.
type Regulations struct {
	COPPA     bool           `json:"coppa,omitempty"`
	GDPR      bool           `json:"gdpr,omitempty"`
	USPrivacy string         `json:"us_privacy,omitempty"`
	EUPrivacy string         `json:"eu_privacy,omitempty"`
	IAB       map[string]any `json:"iab,omitempty"`
}

// AdapterInfo is the SDK-reported version pair for one integrated adapter.
type AdapterInfo struct {
	Version    string `json:"version"`
	SDKVersion string `json:"sdk_version"`
}

// Adapters maps adapter name to its integration info. The key set declares
// which networks the requesting SDK build can actually execute.
type Adapters map[string]AdapterInfo

// Keys returns the adapter names. Map iteration order applies; callers that
// need a stable order must sort.
func (a Adapters) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	return keys
}

// Has reports whether the SDK declared the adapter.
func (a Adapters) Has(name string) bool {
	_, ok := a[name]
	return ok
}
