package logic

import (
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// LineItemResponse is one waterfall entry in the auction response. ID carries
// the adapter name so the SDK knows which network adapter executes the unit.
type LineItemResponse struct {
	ID         string  `json:"id"`
	PriceFloor float64 `json:"pricefloor"`
	AdUnitID   string  `json:"ad_unit_id"`
}

// FetchLineItems returns the waterfall entries for (app, adType) that the
// requesting SDK can execute. Banner requests match the stored format
// exactly; an ADAPTIVE item is never substituted for a fixed-size request or
// vice versa. Items whose adapter the SDK did not declare are dropped. Store
// order is preserved.
func FetchLineItems(store models.ConfigStore, app *models.App, adType models.AdType, format string, adapters schema.Adapters) []LineItemResponse {
	items := store.GetLineItems(app.ID, adType)
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		if adType == models.AdTypeBanner && item.Format != format {
			continue
		}
		adapterKey := store.AdapterKeyForAccount(item.AccountID)
		if adapterKey == "" || !adapters.Has(adapterKey) {
			continue
		}
		out = append(out, LineItemResponse{
			ID:         adapterKey,
			PriceFloor: item.BidFloor,
			AdUnitID:   item.Code,
		})
	}
	return out
}
