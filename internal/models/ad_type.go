package models

import "fmt"

// AdType is the ad format family requested by the SDK.
type AdType string

const (
	AdTypeBanner       AdType = "banner"
	AdTypeInterstitial AdType = "interstitial"
	AdTypeRewarded     AdType = "rewarded"
)

// ErrInvalidAdType is wrapped by ParseAdType for unrecognized values.
var ErrInvalidAdType = fmt.Errorf("invalid ad type")

// ParseAdType validates the ad_type path segment.
func ParseAdType(s string) (AdType, error) {
	switch AdType(s) {
	case AdTypeBanner, AdTypeInterstitial, AdTypeRewarded:
		return AdType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAdType, s)
	}
}

// Banner formats stored on line items and requested in banner ad objects.
const (
	FormatBanner      = "BANNER"
	FormatLeaderboard = "LEADERBOARD"
	FormatMREC        = "MREC"
	FormatAdaptive    = "ADAPTIVE"
)

// BannerSize is a fixed creative size in pixels.
type BannerSize struct {
	W int
	H int
}

// BannerFormatSizes maps a stored banner format to its creative size. ADAPTIVE
// uses width 0: the SDK stretches to the container width at a fixed height.
// Shared by line item matching and every bidding adapter so the tables cannot
// drift apart.
var BannerFormatSizes = map[string]BannerSize{
	FormatBanner:      {W: 320, H: 50},
	FormatLeaderboard: {W: 728, H: 90},
	FormatMREC:        {W: 300, H: 250},
	FormatAdaptive:    {W: 0, H: 50},
}

// FullscreenSizes maps a device type to the interstitial/rewarded canvas size.
var FullscreenSizes = map[string]BannerSize{
	"PHONE":  {W: 320, H: 480},
	"TABLET": {W: 768, H: 1024},
}
