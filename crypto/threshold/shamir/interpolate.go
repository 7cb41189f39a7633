package shamir

import (
	"math/big"

	"github.com/Laisky/errors/v2"
)

// InterpolateFunc evaluates at atX the polynomial through points
type InterpolateFunc func(points []Share, atX int64) (*big.Int, error)

// Interpolation how each lagrange term is divided
type Interpolation string

func (m Interpolation) String() string {
	return string(m)
}

const (
	// InterpolationExact accumulate terms as exact rationals,
	// the sum must be an integer
	InterpolationExact Interpolation = "exact"
	// InterpolationTruncate divide every term by integer division
	// truncated toward zero, then sum
	InterpolationTruncate Interpolation = "truncate"
)

// Func return the interpolate function of this mode
func (m Interpolation) Func() (InterpolateFunc, error) {
	switch m {
	case InterpolationExact:
		return Interpolate, nil
	case InterpolationTruncate:
		return InterpolateTruncated, nil
	default:
		return nil, errors.Errorf("unknown interpolation %q", m)
	}
}

// Interpolate evaluates at atX the unique polynomial of degree len(points)-1
// through points by lagrange interpolation.
//
//	f(x) = Σ_i y_i · Π_{j≠i} (x - x_j) / Π_{j≠i} (x_i - x_j)
//
// Each term is kept as an exact fraction. Returns ErrNotIntegral
// if the sum is not an integer, ErrDuplicateIndex if two points share an index.
func Interpolate(points []Share, atX int64) (*big.Int, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	x := big.NewInt(atX)
	sum := new(big.Rat)
	for i := range points {
		num, den, err := lagrangeBasis(points, i, x)
		if err != nil {
			return nil, err
		}

		num.Mul(num, points[i].Value)
		sum.Add(sum, new(big.Rat).SetFrac(num, den))
	}

	if !sum.IsInt() {
		return nil, errors.Wrapf(ErrNotIntegral, "f(%d) = %s", atX, sum.RatString())
	}

	return new(big.Int).Set(sum.Num()), nil
}

// InterpolateTruncated is Interpolate with every term divided by
// truncating integer division.
//
// the result can be wrong when a single term is not divisible,
// even though the whole sum is an integer.
func InterpolateTruncated(points []Share, atX int64) (*big.Int, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	x := big.NewInt(atX)
	sum := new(big.Int)
	for i := range points {
		num, den, err := lagrangeBasis(points, i, x)
		if err != nil {
			return nil, err
		}

		num.Mul(num, points[i].Value)
		sum.Add(sum, num.Quo(num, den))
	}

	return sum, nil
}

// Secret interpolates points at zero
func Secret(points []Share) (*big.Int, error) {
	return Interpolate(points, 0)
}

// lagrangeBasis returns numerator and denominator of the i-th basis polynomial at x
func lagrangeBasis(points []Share, i int, x *big.Int) (num, den *big.Int, err error) {
	num, den = big.NewInt(1), big.NewInt(1)
	xi := big.NewInt(points[i].Index)
	for j := range points {
		if j == i {
			continue
		}

		xj := big.NewInt(points[j].Index)
		d := new(big.Int).Sub(xi, xj)
		if d.Sign() == 0 {
			return nil, nil, errors.Wrapf(ErrDuplicateIndex, "index %d", points[i].Index)
		}

		num.Mul(num, xj.Sub(x, xj))
		den.Mul(den, d)
	}

	return num, den, nil
}
