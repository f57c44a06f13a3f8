// Package logic implements the mediation decisioning pipeline: app
// resolution, waterfall round filtering, line item selection and adapter
// config resolution. Handlers in the api package stay thin and delegate here.
package logic

import (
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// RequestContext resolves the requesting app once per request. Every endpoint
// authenticates the same way: the client-reported (key, bundle) pair must
// match a registered app.
type RequestContext struct {
	Store    models.ConfigStore
	AdType   models.AdType
	App      schema.App
	Adapters schema.Adapters

	resolved bool
	app      *models.App
}

// NewRequestContext builds a context for one decoded request body.
func NewRequestContext(store models.ConfigStore, adType models.AdType, app schema.App, adapters schema.Adapters) *RequestContext {
	if adapters == nil {
		adapters = schema.Adapters{}
	}
	return &RequestContext{Store: store, AdType: adType, App: app, Adapters: adapters}
}

// ResolvedApp returns the registered app matching the request, or nil. The
// lookup runs once; repeated calls return the memoized result.
func (rc *RequestContext) ResolvedApp() *models.App {
	if !rc.resolved {
		rc.app = rc.Store.GetAppByKey(rc.App.Key, rc.App.Bundle)
		rc.resolved = true
	}
	return rc.app
}

// Valid reports whether the request maps to a registered app.
func (rc *RequestContext) Valid() bool {
	return rc.ResolvedApp() != nil
}
