package models

// App identifies a publisher's SDK integration. An app is looked up once per
// request by its (AppKey, PackageName) pair and treated as read-only; all
// mutation happens in the external admin system.
type App struct {
	ID          int    `json:"id"`
	AppKey      string `json:"app_key"`      // Opaque key issued to the publisher.
	PackageName string `json:"package_name"` // Bundle identifier reported by the SDK.
	Platform    string `json:"platform"`     // "ios" or "android".
}
