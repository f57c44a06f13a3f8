package bidding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patrickwarner/openmediate/internal/geoip"
	"github.com/patrickwarner/openmediate/internal/schema"
)

func TestConnectionTypeCode(t *testing.T) {
	testCases := []struct {
		in   string
		want int
	}{
		{"ETHERNET", 1},
		{"WIFI", 2},
		{"CELLULAR", 3},
		{"CELLULAR_UNKNOWN", 3},
		{"CELLULAR_2_G", 4},
		{"CELLULAR_3_G", 5},
		{"CELLULAR_4_G", 6},
		{"CELLULAR_5_G", 7},
		{"", 3},
		{"CARRIER_PIGEON", 3},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ConnectionTypeCode(tc.in), "connection type %q", tc.in)
	}
}

func TestDeviceTypeCode(t *testing.T) {
	assert.Equal(t, 4, DeviceTypeCode("PHONE"))
	assert.Equal(t, 5, DeviceTypeCode("TABLET"))
	assert.Equal(t, 4, DeviceTypeCode(""))
	assert.Equal(t, 4, DeviceTypeCode("FRIDGE"))
}

func TestBuildDevice(t *testing.T) {
	device := schema.Device{
		UserAgent:      "Mozilla/5.0",
		Manufacturer:   "Google",
		Model:          "Pixel 7 Pro",
		OS:             "android",
		OSVersion:      "13",
		Height:         2179,
		Width:          1080,
		PXRatio:        2.625,
		JS:             1,
		Language:       "en",
		ConnectionType: "WIFI",
		Type:           "TABLET",
	}
	user := schema.User{IDFA: "ifa-1"}
	geo := geoip.Data{Country: "US", Region: "CA", City: "San Jose", ZIP: "95131", Lat: 37.4, Lon: -121.9, Accuracy: 20}

	out := BuildDevice(device, user, "203.0.113.7", geo)

	assert.Equal(t, "203.0.113.7", out.IP)
	assert.Equal(t, "ifa-1", out.IFA)
	assert.Equal(t, 2, out.ConnectionType)
	assert.Equal(t, 5, out.DeviceType)
	assert.Equal(t, "Pixel 7 Pro", out.Model)
	assert.Equal(t, 2179, out.H)
	assert.Equal(t, 1080, out.W)

	// with geo
	if assert.NotNil(t, out.Geo) {
		assert.Equal(t, "US", out.Geo.Country)
		assert.Equal(t, 2, out.Geo.Type)
		assert.Equal(t, 20, out.Geo.Accuracy)
	}

	// unresolved IPs produce no geo object at all
	out = BuildDevice(device, user, "203.0.113.7", geoip.Data{})
	assert.Nil(t, out.Geo)
}

func TestBuildRegs(t *testing.T) {
	assert.Equal(t, &Regs{COPPA: 0, GDPR: 0}, BuildRegs(schema.Regulations{}))
	assert.Equal(t, &Regs{COPPA: 1, GDPR: 0}, BuildRegs(schema.Regulations{COPPA: true}))
	assert.Equal(t, &Regs{COPPA: 1, GDPR: 1}, BuildRegs(schema.Regulations{COPPA: true, GDPR: true}))
}
