// Package shamir recovers a secret split by Shamir's Secret Sharing
// from a share set in which at most one share is corrupted.
//
// The secret is the value at x=0 of the unique degree k-1 polynomial
// that passes through k mutually consistent shares. Interpolation works
// on arbitrary-precision integers and rationals, so shares of any size
// are supported. No arithmetic is done modulo a prime.
//
// The search drops one share at a time, interpolates the first k of the
// remaining shares, and accepts the candidate once every other remaining
// share lies on that polynomial. The dropped share is reported as the
// wrong one.
package shamir

import (
	"fmt"
	"math/big"

	"github.com/Laisky/errors/v2"
)

var (
	// ErrNoPoints interpolating an empty point set
	ErrNoPoints = errors.New("no points to interpolate")
	// ErrDuplicateIndex two points share the same index,
	// the lagrange denominator becomes zero
	ErrDuplicateIndex = errors.New("duplicate share index")
	// ErrNotIntegral the interpolated value is not an integer
	ErrNotIntegral = errors.New("interpolated value is not an integer")
	// ErrInconsistentShare a share does not lie on the candidate polynomial
	ErrInconsistentShare = errors.New("share is inconsistent with candidate polynomial")
	// ErrNotRecovered no candidate subset is consistent with the other shares
	ErrNotRecovered = errors.New("failed to recover secret or identify wrong share")
	// ErrMalformedInput input can not be decoded into a share set
	ErrMalformedInput = errors.New("malformed input")
)

// Share is a point (Index, Value) on the secret polynomial.
//
// Value must not be modified once the share is built.
type Share struct {
	Index int64
	Value *big.Int
}

// NewShare create share
func NewShare(index int64, value *big.Int) Share {
	return Share{
		Index: index,
		Value: new(big.Int).Set(value),
	}
}

// String format share as `index (value)`
func (s Share) String() string {
	return fmt.Sprintf("%d (%s)", s.Index, s.Value.String())
}

func indices(shares []Share) []int64 {
	idx := make([]int64, len(shares))
	for i, s := range shares {
		idx[i] = s.Index
	}

	return idx
}
