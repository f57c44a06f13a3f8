// Package bidding fans one impression out to real-time bidding partners and
// selects the highest-priced response. Each partner speaks an OpenRTB
// dialect; the subset below covers what the integrated exchanges consume.
package bidding

// BidRequest is the outbound document sent to a demand partner.
type BidRequest struct {
	ID     string   `json:"id"`
	Test   int      `json:"test"`
	At     int      `json:"at"`
	TMax   int      `json:"tmax"`
	App    *App     `json:"app,omitempty"`
	Device *Device  `json:"device,omitempty"`
	User   *User    `json:"user,omitempty"`
	Imp    []Imp    `json:"imp"`
	Regs   *Regs    `json:"regs,omitempty"`
	Cur    []string `json:"cur,omitempty"`
}

// App identifies the publisher app to the partner.
type App struct {
	ID        string     `json:"id,omitempty"`
	Bundle    string     `json:"bundle,omitempty"`
	Ver       string     `json:"ver,omitempty"`
	Publisher *Publisher `json:"publisher,omitempty"`
}

// Publisher carries the partner-side seller account id.
type Publisher struct {
	ID string `json:"id,omitempty"`
}

// Device is the partner-facing device object. ConnectionType and DeviceType
// use AdCOM numeric codes, not the SDK enum spellings.
type Device struct {
	UA             string  `json:"ua,omitempty"`
	IP             string  `json:"ip,omitempty"`
	Make           string  `json:"make,omitempty"`
	Model          string  `json:"model,omitempty"`
	OS             string  `json:"os,omitempty"`
	OSV            string  `json:"osv,omitempty"`
	HWV            string  `json:"hwv,omitempty"`
	H              int     `json:"h,omitempty"`
	W              int     `json:"w,omitempty"`
	PPI            int     `json:"ppi,omitempty"`
	PXRatio        float64 `json:"pxratio,omitempty"`
	JS             int     `json:"js,omitempty"`
	Language       string  `json:"language,omitempty"`
	Carrier        string  `json:"carrier,omitempty"`
	MCCMNC         string  `json:"mccmnc,omitempty"`
	ConnectionType int     `json:"connectiontype,omitempty"`
	DeviceType     int     `json:"devicetype,omitempty"`
	IFA            string  `json:"ifa,omitempty"`
	Geo            *Geo    `json:"geo,omitempty"`
}

// Geo is server-resolved location data.
type Geo struct {
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	Type     int     `json:"type,omitempty"`
	Accuracy int     `json:"accuracy,omitempty"`
	Country  string  `json:"country,omitempty"`
	Region   string  `json:"region,omitempty"`
	City     string  `json:"city,omitempty"`
	ZIP      string  `json:"zip,omitempty"`
}

// User carries the per-partner opaque bidding token inside a segment signal.
type User struct {
	Data []UserData `json:"data,omitempty"`
}

// UserData is one first-party data block.
type UserData struct {
	ID      string        `json:"id,omitempty"`
	Name    string        `json:"name,omitempty"`
	Segment []UserSegment `json:"segment,omitempty"`
}

// UserSegment holds the opaque signal a partner SDK produced on device.
type UserSegment struct {
	Signal string `json:"signal,omitempty"`
}

// Regs carries regulatory flags as 0/1 integers.
type Regs struct {
	COPPA int `json:"coppa"`
	GDPR  int `json:"gdpr"`
}

// Imp is the single impression up for auction.
type Imp struct {
	ID                string         `json:"id"`
	DisplayManager    string         `json:"displaymanager,omitempty"`
	DisplayManagerVer string         `json:"displaymanagerver,omitempty"`
	Instl             int            `json:"instl"`
	Secure            int            `json:"secure"`
	BidFloor          float64        `json:"bidfloor"`
	Banner            *Banner        `json:"banner,omitempty"`
	Ext               map[string]any `json:"ext,omitempty"`
}

// Banner describes the creative canvas. Fullscreen formats reuse it with
// Instl=1 on the Imp.
type Banner struct {
	W     int   `json:"w"`
	H     int   `json:"h"`
	BType []int `json:"btype"`
	BAttr []int `json:"battr"`
	Pos   int   `json:"pos"`
}

// BidResponse is the partner's reply.
type BidResponse struct {
	ID      string    `json:"id"`
	SeatBid []SeatBid `json:"seatbid"`
	Cur     string    `json:"cur,omitempty"`
}

// SeatBid groups bids from one buyer seat.
type SeatBid struct {
	Seat string `json:"seat,omitempty"`
	Bid  []Bid  `json:"bid"`
}

// Bid is one priced offer. Price is CPM in the partner's response currency;
// no conversion is applied.
type Bid struct {
	ID    string         `json:"id"`
	ImpID string         `json:"impid"`
	Price float64        `json:"price"`
	AdM   string         `json:"adm,omitempty"`
	AdID  string         `json:"adid,omitempty"`
	NURL  string         `json:"nurl,omitempty"`
	LURL  string         `json:"lurl,omitempty"`
	BURL  string         `json:"burl,omitempty"`
	Ext   map[string]any `json:"ext,omitempty"`
}
