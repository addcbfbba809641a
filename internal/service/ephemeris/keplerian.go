package ephemeris

import (
	"math"

	"AstroChart/internal/domain/models"
)

// orbitalElements holds mean Keplerian elements at J2000 plus their
// per-century rates: semi-major axis (au), eccentricity, inclination,
// mean longitude, longitude of perihelion and longitude of the
// ascending node (degrees).
type orbitalElements struct {
	a, aDot float64
	e, eDot float64
	i, iDot float64
	l, lDot float64
	p, pDot float64
	n, nDot float64
}

// JPL approximate elements, valid 1800 AD to 2050 AD.
var planetElements = map[models.Body]orbitalElements{
	models.Mercury: {
		a: 0.38709927, aDot: 0.00000037,
		e: 0.20563593, eDot: 0.00001906,
		i: 7.00497902, iDot: -0.00594749,
		l: 252.25032350, lDot: 149472.67411175,
		p: 77.45779628, pDot: 0.16047689,
		n: 48.33076593, nDot: -0.12534081,
	},
	models.Venus: {
		a: 0.72333566, aDot: 0.00000390,
		e: 0.00677672, eDot: -0.00004107,
		i: 3.39467605, iDot: -0.00078890,
		l: 181.97909950, lDot: 58517.81538729,
		p: 131.60246718, pDot: 0.00268329,
		n: 76.67984255, nDot: -0.27769418,
	},
	models.Mars: {
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		p: -23.94362959, pDot: 0.44441088,
		n: 49.55953891, nDot: -0.29257343,
	},
	models.Jupiter: {
		a: 5.20288700, aDot: -0.00011607,
		e: 0.04838624, eDot: -0.00013253,
		i: 1.30439695, iDot: -0.00183714,
		l: 34.39644051, lDot: 3034.74612775,
		p: 14.72847983, pDot: 0.21252668,
		n: 100.47390909, nDot: 0.20469106,
	},
	models.Saturn: {
		a: 9.53667594, aDot: -0.00125060,
		e: 0.05386179, eDot: -0.00050991,
		i: 2.48599187, iDot: 0.00193609,
		l: 49.95424423, lDot: 1222.49362201,
		p: 92.59887831, pDot: -0.41897216,
		n: 113.66242448, nDot: -0.28867794,
	},
	models.Uranus: {
		a: 19.18916464, aDot: -0.00196176,
		e: 0.04725744, eDot: -0.00004397,
		i: 0.77263783, iDot: -0.00242939,
		l: 313.23810451, lDot: 428.48202785,
		p: 170.95427630, pDot: 0.40805281,
		n: 74.01692503, nDot: 0.04240589,
	},
	models.Neptune: {
		a: 30.06992276, aDot: 0.00026291,
		e: 0.00859048, eDot: 0.00005105,
		i: 1.77004347, iDot: 0.00035372,
		l: -55.12002969, lDot: 218.45945325,
		p: 44.96476227, pDot: -0.32241464,
		n: 131.78422574, nDot: -0.00508664,
	},
	models.Pluto: {
		a: 39.48211675, aDot: -0.00031596,
		e: 0.24882730, eDot: 0.00005170,
		i: 17.14001206, iDot: 0.00004818,
		l: 238.92903833, lDot: 145.20780515,
		p: 224.06891629, pDot: -0.04062942,
		n: 110.30393684, nDot: -0.01183482,
	},
}

// Earth-Moon barycenter; heliocentric planet positions are made
// geocentric by subtracting this vector.
var earthElements = orbitalElements{
	a: 1.00000261, aDot: 0.00000562,
	e: 0.01671123, eDot: -0.00004392,
	i: -0.00001531, iDot: -0.01294668,
	l: 100.46457166, lDot: 35999.37244981,
	p: 102.93768193, pDot: 0.32327364,
	n: 0, nDot: 0,
}

// solveKepler returns the eccentric anomaly in radians for a mean
// anomaly in radians, by Newton iteration.
func solveKepler(m, e float64) float64 {
	ecc := m
	if e > 0.8 {
		ecc = math.Pi
	}
	for i := 0; i < 30; i++ {
		delta := (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return ecc
}

// heliocentric returns the ecliptic rectangular position (au) of a body
// described by elements, at t centuries past J2000.
func heliocentric(el orbitalElements, t float64) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	inc := radians(el.i + el.iDot*t)
	l := el.l + el.lDot*t
	p := el.p + el.pDot*t
	n := el.n + el.nDot*t

	m := radians(models.Wrap180(l - p))
	w := radians(p - n)
	node := radians(n)

	ecc := solveKepler(m, e)

	// position in the orbital plane
	xp := a * (math.Cos(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cosW, sinW := math.Cos(w), math.Sin(w)
	cosN, sinN := math.Cos(node), math.Sin(node)
	cosI, sinI := math.Cos(inc), math.Sin(inc)

	x = (cosW*cosN-sinW*sinN*cosI)*xp + (-sinW*cosN-cosW*sinN*cosI)*yp
	y = (cosW*sinN+sinW*cosN*cosI)*xp + (-sinW*sinN+cosW*cosN*cosI)*yp
	z = (sinW*sinI)*xp + (cosW*sinI)*yp
	return x, y, z
}

// planetEcliptic returns the geocentric ecliptic longitude and latitude
// (degrees) of a planet, or of the Sun when body is Sun.
func planetEcliptic(body models.Body, jd float64) (lon, lat float64, ok bool) {
	t := CenturiesJ2000(jd)
	ex, ey, ez := heliocentric(earthElements, t)

	var gx, gy, gz float64
	if body == models.Sun {
		gx, gy, gz = -ex, -ey, -ez
	} else {
		el, found := planetElements[body]
		if !found {
			return 0, 0, false
		}
		px, py, pz := heliocentric(el, t)
		gx, gy, gz = px-ex, py-ey, pz-ez
	}

	lon = models.Normalize360(degrees(math.Atan2(gy, gx)))
	lat = degrees(math.Atan2(gz, math.Hypot(gx, gy)))
	return lon, lat, true
}
