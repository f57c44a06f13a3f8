package geoip

import (
	"encoding/json"
	"net"
	"os"

	"github.com/oschwald/geoip2-golang"
)

// GeoIP provides IP geodata lookup using a MaxMind DB or a JSON fallback.
type GeoIP struct {
	db       *geoip2.Reader
	fallback []record
}

type record struct {
	net     *net.IPNet
	country string
	region  string
}

// Data is the result of an IP lookup. Zero values mean "unknown"; partners
// receive only the fields that resolved.
type Data struct {
	Country  string // ISO 3166-1 alpha-2
	Region   string
	City     string
	ZIP      string
	Lat      float64
	Lon      float64
	Accuracy int // Radius in km as reported by the database.
}

// Unknown reports whether the lookup resolved nothing useful.
func (d Data) Unknown() bool {
	return d.Country == ""
}

// Init opens the GeoIP2 database located at path. When the file is not a
// MaxMind DB it is retried as a JSON CIDR list, which keeps tests and local
// setups free of binary fixtures.
func Init(path string) (*GeoIP, error) {
	g := &GeoIP{}
	db, err := geoip2.Open(path)
	if err == nil {
		g.db = db
		return g, nil
	}

	data, jerr := os.ReadFile(path)
	if jerr != nil {
		return nil, err
	}
	var entries []struct {
		Net     string `json:"net"`
		Country string `json:"country"`
		Region  string `json:"region"`
	}
	if jerr = json.Unmarshal(data, &entries); jerr != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, n, perr := net.ParseCIDR(e.Net); perr == nil {
			g.fallback = append(g.fallback, record{net: n, country: e.Country, region: e.Region})
		}
	}
	return g, nil
}

// Lookup returns the geodata for ip. A nil receiver, an unparseable IP or a
// miss all return the zero Data; geo enrichment is always best-effort.
func (g *GeoIP) Lookup(ip net.IP) Data {
	if g == nil || ip == nil {
		return Data{}
	}
	if g.db != nil {
		rec, err := g.db.City(ip)
		if err == nil && rec.Country.IsoCode != "" {
			d := Data{
				Country:  rec.Country.IsoCode,
				City:     rec.City.Names["en"],
				ZIP:      rec.Postal.Code,
				Lat:      rec.Location.Latitude,
				Lon:      rec.Location.Longitude,
				Accuracy: int(rec.Location.AccuracyRadius),
			}
			if len(rec.Subdivisions) > 0 {
				d.Region = rec.Subdivisions[0].IsoCode
			}
			return d
		}
	}
	for _, r := range g.fallback {
		if r.net.Contains(ip) {
			return Data{Country: r.country, Region: r.region}
		}
	}
	return Data{}
}

// Country returns the ISO country code for the given IP, or "".
func (g *GeoIP) Country(ip net.IP) string {
	return g.Lookup(ip).Country
}

// Close releases resources associated with the database.
func (g *GeoIP) Close() error {
	if g != nil && g.db != nil {
		return g.db.Close()
	}
	return nil
}
