package models

import (
	"errors"
	"sort"
	"sync/atomic"
)

// ErrNotFound is returned when an entity is not found in the data store.
var ErrNotFound = errors.New("entity not found")

// ConfigStore provides thread-safe read access to the mediation configuration
// snapshot. The snapshot is owned by the external admin system; request
// handlers only ever read it, and reloads swap the whole snapshot atomically.
type ConfigStore interface {
	// Read operations (hot path)
	GetAppByKey(appKey, packageName string) *App
	GetActiveConfiguration(appID int, adType AdType) *AuctionConfiguration
	GetLineItems(appID int, adType AdType) []LineItem
	GetAccount(accountID int) *DemandSourceAccount
	GetDemandSource(id int) *DemandSource
	GetDemandProfile(appID int, accountType string) *AppDemandProfile
	GetMmpProfile(appID int) *AppMmpProfile

	// AdapterKeyForAccount resolves the adapter name (demand source api_key)
	// that owns the given account, or "" when the chain is broken.
	AdapterKeyForAccount(accountID int) string

	// Write operations (reload path)
	ReloadAll(apps []App, configs []AuctionConfiguration, items []LineItem,
		accounts []DemandSourceAccount, sources []DemandSource,
		demandProfiles []AppDemandProfile, mmpProfiles []AppMmpProfile) error
}

type appAdType struct {
	appID  int
	adType AdType
}

type profileKey struct {
	appID       int
	accountType string
}

// configSnapshot is an immutable view of all mediation data.
type configSnapshot struct {
	appsByKey      map[string]*App // app_key + "\x00" + package_name
	configsByPair  map[appAdType][]AuctionConfiguration
	lineItems      map[appAdType][]LineItem
	accountIndex   map[int]*DemandSourceAccount
	sourceIndex    map[int]*DemandSource
	demandProfiles map[profileKey]*AppDemandProfile
	mmpProfiles    map[int][]AppMmpProfile
}

// InMemoryConfigStore implements ConfigStore with atomic snapshot swaps.
type InMemoryConfigStore struct {
	data atomic.Pointer[configSnapshot]
}

// NewInMemoryConfigStore creates an empty store.
func NewInMemoryConfigStore() *InMemoryConfigStore {
	s := &InMemoryConfigStore{}
	s.data.Store(emptySnapshot())
	return s
}

func emptySnapshot() *configSnapshot {
	return &configSnapshot{
		appsByKey:      make(map[string]*App),
		configsByPair:  make(map[appAdType][]AuctionConfiguration),
		lineItems:      make(map[appAdType][]LineItem),
		accountIndex:   make(map[int]*DemandSourceAccount),
		sourceIndex:    make(map[int]*DemandSource),
		demandProfiles: make(map[profileKey]*AppDemandProfile),
		mmpProfiles:    make(map[int][]AppMmpProfile),
	}
}

func appLookupKey(appKey, packageName string) string {
	return appKey + "\x00" + packageName
}

// GetAppByKey returns the app matching both the app key and package name, or
// nil. Both values are required; a missing pair never matches.
func (s *InMemoryConfigStore) GetAppByKey(appKey, packageName string) *App {
	if appKey == "" || packageName == "" {
		return nil
	}
	return s.data.Load().appsByKey[appLookupKey(appKey, packageName)]
}

// GetActiveConfiguration returns the most recently created configuration for
// (appID, adType), or nil when none exists.
func (s *InMemoryConfigStore) GetActiveConfiguration(appID int, adType AdType) *AuctionConfiguration {
	configs := s.data.Load().configsByPair[appAdType{appID, adType}]
	if len(configs) == 0 {
		return nil
	}
	// Sorted newest-first at reload time.
	cfg := configs[0]
	return &cfg
}

// GetLineItems returns line items for (appID, adType) in store order.
func (s *InMemoryConfigStore) GetLineItems(appID int, adType AdType) []LineItem {
	return s.data.Load().lineItems[appAdType{appID, adType}]
}

// GetAccount returns the demand source account by id, or nil.
func (s *InMemoryConfigStore) GetAccount(accountID int) *DemandSourceAccount {
	return s.data.Load().accountIndex[accountID]
}

// GetDemandSource returns the demand source by id, or nil.
func (s *InMemoryConfigStore) GetDemandSource(id int) *DemandSource {
	return s.data.Load().sourceIndex[id]
}

// GetDemandProfile returns the app's demand profile for an account type, or nil.
func (s *InMemoryConfigStore) GetDemandProfile(appID int, accountType string) *AppDemandProfile {
	return s.data.Load().demandProfiles[profileKey{appID, accountType}]
}

// GetMmpProfile returns the app's most recently started MMP profile, or nil.
func (s *InMemoryConfigStore) GetMmpProfile(appID int) *AppMmpProfile {
	profiles := s.data.Load().mmpProfiles[appID]
	if len(profiles) == 0 {
		return nil
	}
	// Sorted newest-first at reload time.
	p := profiles[0]
	return &p
}

// AdapterKeyForAccount walks account -> demand source -> api_key.
func (s *InMemoryConfigStore) AdapterKeyForAccount(accountID int) string {
	data := s.data.Load()
	account := data.accountIndex[accountID]
	if account == nil {
		return ""
	}
	source := data.sourceIndex[account.DemandSourceID]
	if source == nil {
		return ""
	}
	return source.APIKey
}

// ReloadAll replaces the entire snapshot in one atomic swap. Readers holding
// the previous snapshot finish their request against consistent data.
func (s *InMemoryConfigStore) ReloadAll(apps []App, configs []AuctionConfiguration, items []LineItem,
	accounts []DemandSourceAccount, sources []DemandSource,
	demandProfiles []AppDemandProfile, mmpProfiles []AppMmpProfile) error {

	snap := emptySnapshot()

	for i := range apps {
		app := apps[i]
		snap.appsByKey[appLookupKey(app.AppKey, app.PackageName)] = &app
	}

	for _, cfg := range configs {
		key := appAdType{cfg.AppID, cfg.AdType}
		snap.configsByPair[key] = append(snap.configsByPair[key], cfg)
	}
	for key := range snap.configsByPair {
		list := snap.configsByPair[key]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}

	for _, item := range items {
		key := appAdType{item.AppID, item.AdType}
		snap.lineItems[key] = append(snap.lineItems[key], item)
	}

	for i := range accounts {
		account := accounts[i]
		snap.accountIndex[account.ID] = &account
	}
	for i := range sources {
		source := sources[i]
		snap.sourceIndex[source.ID] = &source
	}
	for i := range demandProfiles {
		profile := demandProfiles[i]
		snap.demandProfiles[profileKey{profile.AppID, profile.AccountType}] = &profile
	}
	for _, profile := range mmpProfiles {
		snap.mmpProfiles[profile.AppID] = append(snap.mmpProfiles[profile.AppID], profile)
	}
	for appID := range snap.mmpProfiles {
		list := snap.mmpProfiles[appID]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].StartedAt > list[j].StartedAt
		})
	}

	s.data.Store(snap)
	return nil
}

// NewTestConfigStore returns an empty store for use in tests.
func NewTestConfigStore() *InMemoryConfigStore {
	return NewInMemoryConfigStore()
}
