package numeric

import (
	"errors"
	"math"
)

// ErrNoConvergence is returned when the iteration budget runs out before
// the residual drops under tolerance.
var ErrNoConvergence = errors.New("numeric: no convergence within iteration budget")

// ErrNoBracket is returned when f(lo) and f(hi) share a sign.
var ErrNoBracket = errors.New("numeric: interval does not bracket a root")

// Solve finds x in [lo, hi] with |f(x)| <= tol, assuming f(lo) and f(hi)
// have opposite signs. It alternates secant steps with bisection: the
// secant estimate is used when it falls inside the current bracket,
// otherwise the midpoint is taken. This keeps the quick convergence of
// linear interpolation while guaranteeing bisection's worst case.
func Solve(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, error) {
	flo := f(lo)
	fhi := f(hi)

	if math.Abs(flo) <= tol {
		return lo, nil
	}
	if math.Abs(fhi) <= tol {
		return hi, nil
	}
	if flo*fhi > 0 {
		return 0, ErrNoBracket
	}

	for i := 0; i < maxIter; i++ {
		var x float64
		if fhi != flo {
			x = hi - fhi*(hi-lo)/(fhi-flo)
		}
		if x <= lo || x >= hi || fhi == flo {
			x = lo + (hi-lo)/2
		}

		fx := f(x)
		if math.Abs(fx) <= tol {
			return x, nil
		}

		if flo*fx < 0 {
			hi, fhi = x, fx
		} else {
			lo, flo = x, fx
		}
	}

	return 0, ErrNoConvergence
}

// MinimizeAbs finds x in [lo, hi] minimizing |f(x)| by golden-section
// search. Used for near-miss brackets where the residual dips toward
// zero without a sign change.
func MinimizeAbs(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, float64) {
	const invPhi = 0.6180339887498949

	a, b := lo, hi
	c := b - (b-a)*invPhi
	d := a + (b-a)*invPhi
	fc := math.Abs(f(c))
	fd := math.Abs(f(d))

	for i := 0; i < maxIter && b-a > tol; i++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - (b-a)*invPhi
			fc = math.Abs(f(c))
		} else {
			a, c, fc = c, d, fd
			d = a + (b-a)*invPhi
			fd = math.Abs(f(d))
		}
	}

	x := (a + b) / 2
	return x, math.Abs(f(x))
}
