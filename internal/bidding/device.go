package bidding

import (
	"github.com/patrickwarner/openmediate/internal/geoip"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// AdCOM list: connection types.
// https://github.com/InteractiveAdvertisingBureau/AdCOM/blob/master/AdCOM%20v1.0%20FINAL.md
var connectionTypeCodes = map[string]int{
	"ETHERNET":         1,
	"WIFI":             2,
	"CELLULAR":         3,
	"CELLULAR_UNKNOWN": 3,
	"CELLULAR_2_G":     4,
	"CELLULAR_3_G":     5,
	"CELLULAR_4_G":     6,
	"CELLULAR_5_G":     7,
}

const defaultConnectionType = 3

// AdCOM list: device types.
var deviceTypeCodes = map[string]int{
	"PHONE":  4,
	"TABLET": 5,
}

const defaultDeviceType = 4

// ConnectionTypeCode maps the SDK enum spelling to its AdCOM code. Unknown
// spellings fall back to generic cellular.
func ConnectionTypeCode(connectionType string) int {
	if code, ok := connectionTypeCodes[connectionType]; ok {
		return code
	}
	return defaultConnectionType
}

// DeviceTypeCode maps the SDK device type to its AdCOM code. Unknown values
// are treated as phones.
func DeviceTypeCode(deviceType string) int {
	if code, ok := deviceTypeCodes[deviceType]; ok {
		return code
	}
	return defaultDeviceType
}

// BuildDevice assembles the partner-facing device object from the SDK device
// payload, the advertising id and the server-side IP lookup. Client-supplied
// geo is ignored; partners get the resolved location or nothing.
func BuildDevice(device schema.Device, user schema.User, ip string, geo geoip.Data) *Device {
	out := &Device{
		UA:             device.UserAgent,
		IP:             ip,
		Make:           device.Manufacturer,
		Model:          device.Model,
		OS:             device.OS,
		OSV:            device.OSVersion,
		HWV:            device.HardwareVersion,
		H:              device.Height,
		W:              device.Width,
		PPI:            device.PPI,
		PXRatio:        device.PXRatio,
		JS:             device.JS,
		Language:       device.Language,
		Carrier:        device.Carrier,
		MCCMNC:         device.MCCMNC,
		ConnectionType: ConnectionTypeCode(device.ConnectionType),
		DeviceType:     DeviceTypeCode(device.Type),
		IFA:            user.IDFA,
	}
	if !geo.Unknown() {
		out.Geo = &Geo{
			Lat:      geo.Lat,
			Lon:      geo.Lon,
			Type:     2, // Resolved from IP.
			Accuracy: geo.Accuracy,
			Country:  geo.Country,
			Region:   geo.Region,
			City:     geo.City,
			ZIP:      geo.ZIP,
		}
	}
	return out
}

// BuildRegs converts the boolean regulation flags to the 0/1 integers
// partners expect.
func BuildRegs(regs schema.Regulations) *Regs {
	out := &Regs{}
	if regs.COPPA {
		out.COPPA = 1
	}
	if regs.GDPR {
		out.GDPR = 1
	}
	return out
}

// BuildUser embeds the per-adapter opaque bidding token as a segment signal.
func BuildUser(token string) *User {
	return &User{
		Data: []UserData{{
			ID:      "1",
			Name:    "openmediate",
			Segment: []UserSegment{{Signal: token}},
		}},
	}
}
