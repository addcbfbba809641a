package houses

import (
	"fmt"
	"math"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/service/ephemeris"
	"AstroChart/internal/service/numeric"
)

const (
	cuspTolerance = 1e-7
	cuspMaxIter   = 100

	// scan window around the Porphyry guess when bracketing a
	// quadrant-system cusp
	scanHalfWidth = 45.0
	scanStep      = 5.0
)

// Calculator derives house cusps and assigns bodies to houses.
type Calculator struct{}

// NewCalculator creates a house calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Cusps computes the twelve house cusps for an instant and location.
// The instant must be in UTC.
func (c *Calculator) Cusps(instant time.Time, latitude, longitude float64, system models.HouseSystem) (models.HouseCusps, error) {
	if latitude < -90 || latitude > 90 {
		return models.HouseCusps{}, &models.InvalidCoordinatesError{
			Latitude:  latitude,
			Longitude: longitude,
			Reason:    "latitude must be within [-90, 90]",
		}
	}
	if longitude < -180 || longitude > 180 {
		return models.HouseCusps{}, &models.InvalidCoordinatesError{
			Latitude:  latitude,
			Longitude: longitude,
			Reason:    "longitude must be within [-180, 180]",
		}
	}
	if system.Quadrant() && math.Abs(latitude) >= 66 {
		return models.HouseCusps{}, &models.InvalidCoordinatesError{
			Latitude:  latitude,
			Longitude: longitude,
			Reason:    fmt.Sprintf("%s cusps are undefined at polar latitudes", system),
		}
	}

	jd := ephemeris.JulianDay(instant)
	eps := ephemeris.MeanObliquity(jd)
	ramc := models.Normalize360(ephemeris.GMSTDegrees(jd) + longitude)

	asc := ascendantAt(ramc, latitude, eps)
	mc := midheavenAt(ramc, eps)
	vertex := ascendantAt(models.Normalize360(ramc+180), 90-latitude, eps)

	cusps := models.HouseCusps{
		System:    system,
		Instant:   instant,
		Latitude:  latitude,
		Longitude: longitude,
		Ascendant: asc,
		MC:        mc,
		Vertex:    vertex,
	}

	var err error
	switch system {
	case models.Equal:
		for k := 0; k < 12; k++ {
			cusps.Cusps[k] = models.Normalize360(asc + float64(k)*30)
		}
	case models.WholeSign:
		start := 30 * math.Floor(asc/30)
		for k := 0; k < 12; k++ {
			cusps.Cusps[k] = models.Normalize360(start + float64(k)*30)
		}
	case models.Porphyry:
		cusps.Cusps = porphyryCusps(asc, mc)
	case models.Placidus:
		cusps.Cusps, err = placidusCusps(ramc, latitude, eps, asc, mc)
	case models.Koch:
		cusps.Cusps = kochCusps(ramc, latitude, eps, asc, mc)
	default:
		return models.HouseCusps{}, &models.InvalidConfigurationError{
			Field:  "house_system",
			Reason: fmt.Sprintf("unsupported house system %q", system),
		}
	}
	if err != nil {
		return models.HouseCusps{}, err
	}

	return cusps, nil
}

// AssignHouses sets the House field on each body from the cusp set.
func (c *Calculator) AssignHouses(bodies []models.CelestialBody, cusps *models.HouseCusps) {
	for i := range bodies {
		bodies[i].House = cusps.HouseOf(bodies[i].Longitude)
	}
}

// ascendantAt returns the ecliptic longitude rising on the eastern
// horizon for a given RAMC, latitude and obliquity, all in degrees.
func ascendantAt(ramc, latitude, eps float64) float64 {
	ramcR := radians(ramc)
	epsR := radians(eps)
	latR := radians(latitude)

	y := math.Cos(ramcR)
	x := -(math.Sin(ramcR)*math.Cos(epsR) + math.Tan(latR)*math.Sin(epsR))
	return models.Normalize360(degrees(math.Atan2(y, x)))
}

// midheavenAt returns the ecliptic longitude culminating on the
// meridian.
func midheavenAt(ramc, eps float64) float64 {
	ramcR := radians(ramc)
	epsR := radians(eps)
	return models.Normalize360(degrees(math.Atan2(math.Sin(ramcR), math.Cos(ramcR)*math.Cos(epsR))))
}

// rightAscension returns the RA in degrees of an ecliptic point with
// zero latitude.
func rightAscension(lon, eps float64) float64 {
	lonR := radians(lon)
	epsR := radians(eps)
	return models.Normalize360(degrees(math.Atan2(math.Sin(lonR)*math.Cos(epsR), math.Cos(lonR))))
}

// declination returns the declination in degrees of an ecliptic point
// with zero latitude.
func declination(lon, eps float64) float64 {
	return degrees(math.Asin(math.Sin(radians(eps)) * math.Sin(radians(lon))))
}

// ascensionalDifference returns AD in degrees; its argument is clamped
// so sub-polar latitudes never produce NaN.
func ascensionalDifference(lon, latitude, eps float64) float64 {
	x := math.Tan(radians(latitude)) * math.Tan(radians(declination(lon, eps)))
	if x > 1 {
		x = 1
	}
	if x < -1 {
		x = -1
	}
	return degrees(math.Asin(x))
}

func porphyryCusps(asc, mc float64) [12]float64 {
	var cusps [12]float64

	dayArc := models.Normalize360(asc - mc)

	cusps[9] = mc
	cusps[10] = models.Normalize360(mc + dayArc/3)
	cusps[11] = models.Normalize360(mc + 2*dayArc/3)
	cusps[0] = asc

	ascToIC := models.Normalize360(mc + 180 - asc)
	cusps[1] = models.Normalize360(asc + ascToIC/3)
	cusps[2] = models.Normalize360(asc + 2*ascToIC/3)

	fillOpposites(&cusps)
	return cusps
}

// placidusCusps solves the defining relation of each intermediate cusp:
// the cusp's right ascension sits at a fixed fraction of its own
// semi-diurnal (houses 11, 12) or semi-nocturnal (houses 2, 3) arc past
// the meridian. No closed form exists, so each cusp is found by
// bracketed root search seeded from the Porphyry cusp.
func placidusCusps(ramc, latitude, eps, asc, mc float64) ([12]float64, error) {
	var cusps [12]float64
	guess := porphyryCusps(asc, mc)

	residual := func(house int) func(float64) float64 {
		return func(lon float64) float64 {
			ad := ascensionalDifference(lon, latitude, eps)
			var offset float64
			switch house {
			case 11:
				offset = (90 + ad) / 3
			case 12:
				offset = 2 * (90 + ad) / 3
			case 2:
				offset = 180 - 2*(90-ad)/3
			case 3:
				offset = 180 - (90-ad)/3
			}
			return models.Wrap180(rightAscension(lon, eps) - ramc - offset)
		}
	}

	for _, house := range []int{11, 12, 2, 3} {
		lon, err := solveCusp(residual(house), guess[house-1])
		if err != nil {
			return cusps, &models.ChartCalculationError{
				Op:  fmt.Sprintf("placidus cusp %d", house),
				Err: err,
			}
		}
		cusps[house-1] = lon
	}

	cusps[9] = mc
	cusps[0] = asc
	fillOpposites(&cusps)
	return cusps, nil
}

// kochCusps places intermediate cusps by trisecting the MC's own
// ascensional difference along the horizon.
func kochCusps(ramc, latitude, eps, asc, mc float64) [12]float64 {
	var cusps [12]float64

	ad := ascensionalDifference(mc, latitude, eps)

	cusps[9] = mc
	cusps[10] = ascendantAt(models.Normalize360(ramc+30-2*ad/3), latitude, eps)
	cusps[11] = ascendantAt(models.Normalize360(ramc+60-ad/3), latitude, eps)
	cusps[0] = asc
	cusps[1] = ascendantAt(models.Normalize360(ramc+120+ad/3), latitude, eps)
	cusps[2] = ascendantAt(models.Normalize360(ramc+150+2*ad/3), latitude, eps)

	fillOpposites(&cusps)
	return cusps
}

// solveCusp brackets a sign change of f around the seed longitude and
// refines it.
func solveCusp(f func(float64) float64, seed float64) (float64, error) {
	lo := seed - scanHalfWidth
	prev := f(lo)

	for x := lo + scanStep; x <= seed+scanHalfWidth+1e-9; x += scanStep {
		cur := f(x)
		if prev == 0 {
			return models.Normalize360(x - scanStep), nil
		}
		if prev*cur < 0 {
			root, err := numeric.Solve(f, x-scanStep, x, cuspTolerance, cuspMaxIter)
			if err != nil {
				return 0, err
			}
			return models.Normalize360(root), nil
		}
		prev = cur
	}

	return 0, fmt.Errorf("no bracket found near %.2f", seed)
}

// fillOpposites derives the cusps of houses 4 through 9 from their
// opposite cusps.
func fillOpposites(cusps *[12]float64) {
	for k := 3; k < 9; k++ {
		cusps[k] = models.Normalize360(cusps[(k+6)%12] + 180)
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
