package models

// GeoLocation is a plain WGS84 coordinate pair. It is a value type with no
// identity; equality is coordinate equality.
type GeoLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinates are inside the WGS84 range.
func (g GeoLocation) Valid() bool {
	return g.Lat >= -90 && g.Lat <= 90 && g.Lng >= -180 && g.Lng <= 180
}
