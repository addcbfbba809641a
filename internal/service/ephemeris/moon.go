package ephemeris

import (
	"math"

	"AstroChart/internal/domain/models"
)

// Lunar theory after Schlyter: mean orbital elements plus the largest
// perturbation terms. Accuracy is a few arc-minutes in longitude, which
// is well under the smallest default aspect orb.

const moonEpoch = 2451543.5 // 1999-12-31 00:00 UT

// moonEcliptic returns the geocentric ecliptic longitude and latitude
// of the Moon in degrees.
func moonEcliptic(jd float64) (lon, lat float64) {
	d := jd - moonEpoch

	n := 125.1228 - 0.0529538083*d  // ascending node
	i := radians(5.1454)            // inclination
	w := 318.0634 + 0.1643573223*d  // argument of perigee
	const a = 60.2666               // earth radii
	const e = 0.0549                // eccentricity
	m := 115.3654 + 13.0649929509*d // mean anomaly

	mRad := radians(models.Normalize360(m))
	ecc := solveKepler(mRad, e)

	xv := a * (math.Cos(ecc) - e)
	yv := a * math.Sqrt(1-e*e) * math.Sin(ecc)
	r := math.Hypot(xv, yv)
	v := degrees(math.Atan2(yv, xv))

	nRad := radians(models.Normalize360(n))
	vw := radians(v + w)

	xe := r * (math.Cos(nRad)*math.Cos(vw) - math.Sin(nRad)*math.Sin(vw)*math.Cos(i))
	ye := r * (math.Sin(nRad)*math.Cos(vw) + math.Cos(nRad)*math.Sin(vw)*math.Cos(i))
	ze := r * math.Sin(vw) * math.Sin(i)

	lon = models.Normalize360(degrees(math.Atan2(ye, xe)))
	lat = degrees(math.Atan2(ze, math.Hypot(xe, ye)))

	// fundamental arguments for the perturbation series
	ms := 356.0470 + 0.9856002585*d // sun mean anomaly
	ws := 282.9404 + 0.0000470935*d // sun argument of perihelion
	ls := ms + ws                   // sun mean longitude
	lm := n + w + m                 // moon mean longitude
	dd := radians(lm - ls)          // mean elongation
	f := radians(lm - n)            // argument of latitude
	mRadS := radians(ms)

	lon += -1.274*math.Sin(mRad-2*dd) +
		0.658*math.Sin(2*dd) +
		-0.186*math.Sin(mRadS) +
		-0.059*math.Sin(2*mRad-2*dd) +
		-0.057*math.Sin(mRad-2*dd+mRadS) +
		0.053*math.Sin(mRad+2*dd) +
		0.046*math.Sin(2*dd-mRadS) +
		0.041*math.Sin(mRad-mRadS) +
		-0.035*math.Sin(dd) +
		-0.031*math.Sin(mRad+mRadS) +
		-0.015*math.Sin(2*f-2*dd) +
		0.011*math.Sin(mRad-4*dd)

	lat += -0.173*math.Sin(f-2*dd) +
		-0.055*math.Sin(mRad-f-2*dd) +
		-0.046*math.Sin(mRad+f-2*dd) +
		0.033*math.Sin(f+2*dd) +
		0.017*math.Sin(2*mRad+f)

	return models.Normalize360(lon), lat
}

// moonNodeLongitude returns the mean longitude of the ascending lunar
// node in degrees.
func moonNodeLongitude(jd float64) float64 {
	d := jd - moonEpoch
	return models.Normalize360(125.1228 - 0.0529538083*d)
}
