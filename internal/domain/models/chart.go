package models

import "time"

// Position is a raw ecliptic position as supplied by a provider.
type Position struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Speed     float64 `json:"speed"`
}

// CelestialBody is a body placed on a chart. House is 0 until house
// assignment runs.
type CelestialBody struct {
	Body       Body    `json:"body"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Speed      float64 `json:"speed"`
	Sign       string  `json:"sign"`
	SignDegree float64 `json:"sign_degree"`
	House      int     `json:"house,omitempty"`
	Retrograde bool    `json:"retrograde"`
}

// NewCelestialBody builds a chart body from a provider position.
func NewCelestialBody(body Body, pos Position) CelestialBody {
	lon := Normalize360(pos.Longitude)
	sign, deg := SignFor(lon)
	return CelestialBody{
		Body:       body,
		Longitude:  lon,
		Latitude:   pos.Latitude,
		Speed:      pos.Speed,
		Sign:       sign,
		SignDegree: deg,
		Retrograde: pos.Speed < 0,
	}
}

// HouseCusps holds the twelve cusp longitudes for one instant and
// location. Cusps[k] is the cusp of house k+1.
type HouseCusps struct {
	System    HouseSystem `json:"system"`
	Instant   time.Time   `json:"instant"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Cusps     [12]float64 `json:"cusps"`
	Ascendant float64     `json:"ascendant"`
	MC        float64     `json:"mc"`
	Vertex    float64     `json:"vertex"`
}

// HouseOf returns the house (1..12) containing the given longitude.
// A body belongs to house k when its longitude lies in [cusp_k,
// cusp_{k+1}) walking forward around the circle.
func (h *HouseCusps) HouseOf(lon float64) int {
	lon = Normalize360(lon)
	for k := 0; k < 12; k++ {
		lo := h.Cusps[k]
		hi := h.Cusps[(k+1)%12]
		span := Normalize360(hi - lo)
		if span == 0 {
			continue
		}
		if Normalize360(lon-lo) < span {
			return k + 1
		}
	}
	return 12
}

// AspectResult is one detected aspect between two chart bodies.
// OrbDelta is the signed difference between the actual separation and
// the exact angle.
type AspectResult struct {
	Body1      Body    `json:"body1"`
	Body2      Body    `json:"body2"`
	Aspect     string  `json:"aspect"`
	Angle      float64 `json:"angle"`
	Separation float64 `json:"separation"`
	OrbDelta   float64 `json:"orb_delta"`
	Applying   bool    `json:"applying"`
}

// TransitEvent is one exact-aspect instant found by the search engine.
type TransitEvent struct {
	Transiting Body      `json:"transiting"`
	Natal      Body      `json:"natal"`
	Aspect     string    `json:"aspect"`
	Angle      float64   `json:"angle"`
	Timestamp  time.Time `json:"timestamp"`
	Residual   float64   `json:"residual"`
}

// BatchSummary aggregates per-item outcomes of a batch call.
type BatchSummary struct {
	Requested int `json:"requested"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
