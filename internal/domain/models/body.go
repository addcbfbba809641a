package models

import "math"

// Body identifies a celestial body or calculated chart point.
type Body string

const (
	Sun           Body = "sun"
	Moon          Body = "moon"
	Mercury       Body = "mercury"
	Venus         Body = "venus"
	Mars          Body = "mars"
	Jupiter       Body = "jupiter"
	Saturn        Body = "saturn"
	Uranus        Body = "uranus"
	Neptune       Body = "neptune"
	Pluto         Body = "pluto"
	NorthNode     Body = "north_node"
	SouthNode     Body = "south_node"
	PartOfFortune Body = "part_of_fortune"
	Ascendant     Body = "ascendant"
	Midheaven     Body = "midheaven"
)

// DefaultBodies is the body set computed when a request does not name one.
var DefaultBodies = []Body{
	Sun, Moon, Mercury, Venus, Mars,
	Jupiter, Saturn, Uranus, Neptune, Pluto,
	NorthNode, SouthNode,
}

// Orb classes, widest orbs first. Chart angles share the luminary
// class, per standard practice.
const (
	ClassLuminary = iota
	ClassPersonal
	ClassSocial
	ClassOuter
)

// OrbClass returns the orb class of a body. Luminaries and chart angles
// get the widest orbs; outer planets and calculated points the
// tightest.
func OrbClass(b Body) int {
	switch b {
	case Sun, Moon, Ascendant, Midheaven:
		return ClassLuminary
	case Mercury, Venus, Mars:
		return ClassPersonal
	case Jupiter, Saturn:
		return ClassSocial
	default:
		return ClassOuter
	}
}

// Signs lists the zodiac signs in longitude order.
var Signs = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Normalize360 wraps an angle into [0, 360).
func Normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Wrap180 wraps an angle into (-180, 180].
func Wrap180(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	}
	if deg <= -180 {
		deg += 360
	}
	return deg
}

// SignFor returns the zodiac sign name and degree within the sign for an
// ecliptic longitude.
func SignFor(lon float64) (string, float64) {
	lon = Normalize360(lon)
	idx := int(lon / 30)
	if idx > 11 {
		idx = 11
	}
	return Signs[idx], lon - float64(idx)*30
}
