package ephemeris

import (
	"math"
	"time"

	"AstroChart/internal/domain/models"
)

const (
	// J2000 epoch as a Julian day.
	j2000 = 2451545.0

	daySeconds = 86400.0
)

// JulianDay converts a UTC instant to a Julian day number.
func JulianDay(t time.Time) float64 {
	return float64(t.UnixNano())/1e9/daySeconds + 2440587.5
}

// TimeFromJulianDay converts a Julian day back to a UTC instant.
func TimeFromJulianDay(jd float64) time.Time {
	sec := (jd - 2440587.5) * daySeconds
	return time.Unix(0, int64(sec*1e9)).UTC()
}

// CenturiesJ2000 returns Julian centuries elapsed since J2000.
func CenturiesJ2000(jd float64) float64 {
	return (jd - j2000) / 36525.0
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees.
func MeanObliquity(jd float64) float64 {
	t := CenturiesJ2000(jd)
	return 23.4392911 - 0.0130042*t
}

// GMSTDegrees returns Greenwich mean sidereal time in degrees.
func GMSTDegrees(jd float64) float64 {
	return models.Normalize360(280.46061837 + 360.98564736629*(jd-j2000))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
