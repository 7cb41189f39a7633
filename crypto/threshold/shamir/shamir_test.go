package shamir

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// polynomial coefficients, a_0 first
type polynomial []*big.Int

func newPolynomial(coeffs ...int64) polynomial {
	p := make(polynomial, len(coeffs))
	for i, c := range coeffs {
		p[i] = big.NewInt(c)
	}

	return p
}

// randomPolynomial coefficients are signed and up to 256 bits
func randomPolynomial(r *rand.Rand, degree int) polynomial {
	limit := new(big.Int).Lsh(big.NewInt(1), 256)
	half := new(big.Int).Rsh(limit, 1)
	p := make(polynomial, degree+1)
	for i := range p {
		p[i] = new(big.Int).Rand(r, limit)
		p[i].Sub(p[i], half)
	}

	return p
}

// evaluate by Horner's method
func (p polynomial) evaluate(x int64) *big.Int {
	bx := big.NewInt(x)
	result := new(big.Int).Set(p[len(p)-1])
	for i := len(p) - 2; i >= 0; i-- {
		result.Mul(result, bx)
		result.Add(result, p[i])
	}

	return result
}

func (p polynomial) shares(indices ...int64) []Share {
	shares := make([]Share, len(indices))
	for i, idx := range indices {
		shares[i] = Share{Index: idx, Value: p.evaluate(idx)}
	}

	return shares
}

func seq(from, to int64) []int64 {
	var idx []int64
	for i := from; i <= to; i++ {
		idx = append(idx, i)
	}

	return idx
}

func TestShare(t *testing.T) {
	v := big.NewInt(999)
	s := NewShare(4, v)
	require.Equal(t, "4 (999)", s.String())

	// share keeps its own copy
	v.SetInt64(1)
	require.Equal(t, "999", s.Value.String())

	require.Equal(t, []int64{4, 2}, indices([]Share{s, {Index: 2, Value: v}}))
}
