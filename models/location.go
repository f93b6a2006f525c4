package models

// GeoPoint holds a GeoJSON point as stored in mongo 2dsphere indexed fields.
// Coordinates are [longitude, latitude] per the GeoJSON spec.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a latitude/longitude pair
func NewGeoPoint(latitude, longitude float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

// Latitude returns the latitude component of the point
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Longitude returns the longitude component of the point
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

// IsZero reports whether the point carries no coordinates
func (p GeoPoint) IsZero() bool {
	return len(p.Coordinates) < 2
}

// ValidCoordinates reports whether the lat/lng pair is inside the WGS84 range
func ValidCoordinates(latitude, longitude float64) bool {
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}
