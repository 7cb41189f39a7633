package shamir

import (
	"math/big"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	gutils "github.com/Laisky/shamir-recovery"
)

func TestInterpolate(t *testing.T) {
	// f(x) = x^2 + 3x + 5
	p := newPolynomial(5, 3, 1)
	points := p.shares(1, 2, 3)

	cases := []struct {
		atX    int64
		expect int64
	}{
		{0, 5},
		{1, 9},
		{2, 15},
		{3, 23},
		{4, 33},
		{-1, 3},
		{100, 10305},
	}
	for _, c := range cases {
		got, err := Interpolate(points, c.atX)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(c.expect).String(), got.String(), "f(%d)", c.atX)
	}

	secret, err := Secret(points)
	require.NoError(t, err)
	require.Equal(t, "5", secret.String())
}

func TestInterpolateDoesNotMutate(t *testing.T) {
	points := newPolynomial(5, 3, 1).shares(1, 2, 3)
	_, err := Interpolate(points, 7)
	require.NoError(t, err)
	_, err = InterpolateTruncated(points, 7)
	require.NoError(t, err)

	require.Equal(t, "9", points[0].Value.String())
	require.Equal(t, "15", points[1].Value.String())
	require.Equal(t, "23", points[2].Value.String())
}

func TestInterpolateSinglePoint(t *testing.T) {
	points := []Share{{Index: 3, Value: big.NewInt(42)}}
	for _, x := range []int64{0, 1, 3, 1000} {
		got, err := Interpolate(points, x)
		require.NoError(t, err)
		require.Equal(t, "42", got.String())
	}
}

func TestInterpolateErrors(t *testing.T) {
	t.Run("no points", func(t *testing.T) {
		_, err := Interpolate(nil, 0)
		require.True(t, errors.Is(err, ErrNoPoints))
		_, err = InterpolateTruncated(nil, 0)
		require.True(t, errors.Is(err, ErrNoPoints))
	})

	t.Run("duplicate index", func(t *testing.T) {
		points := []Share{
			{Index: 1, Value: big.NewInt(9)},
			{Index: 2, Value: big.NewInt(15)},
			{Index: 1, Value: big.NewInt(9)},
		}

		_, err := Interpolate(points, 0)
		require.True(t, errors.Is(err, ErrDuplicateIndex), "%+v", err)
		require.False(t, errors.Is(err, ErrNotIntegral))

		_, err = InterpolateTruncated(points, 5)
		require.True(t, errors.Is(err, ErrDuplicateIndex), "%+v", err)
	})

	t.Run("not integral", func(t *testing.T) {
		// line through (1, 0) and (3, 1) is (x-1)/2
		points := []Share{
			{Index: 1, Value: big.NewInt(0)},
			{Index: 3, Value: big.NewInt(1)},
		}

		_, err := Interpolate(points, 0)
		require.True(t, errors.Is(err, ErrNotIntegral), "%+v", err)
		require.Contains(t, err.Error(), "-1/2")

		got, err := Interpolate(points, 5)
		require.NoError(t, err)
		require.Equal(t, "2", got.String())
	})
}

func TestInterpolateTruncated(t *testing.T) {
	// f(x) = x^2, basis terms at zero are 8/3, -8 and 16/3
	points := newPolynomial(0, 0, 1).shares(1, 2, 4)

	exact, err := Interpolate(points, 0)
	require.NoError(t, err)
	require.Equal(t, "0", exact.String())

	truncated, err := InterpolateTruncated(points, 0)
	require.NoError(t, err)
	require.Equal(t, "-1", truncated.String())

	// every term is an integer, both agree
	points = newPolynomial(5, 3, 1).shares(1, 2, 3)
	truncated, err = InterpolateTruncated(points, 0)
	require.NoError(t, err)
	require.Equal(t, "5", truncated.String())
}

func TestInterpolationFunc(t *testing.T) {
	f, err := InterpolationExact.Func()
	require.NoError(t, err)
	got, err := f(newPolynomial(0, 0, 1).shares(1, 2, 4), 0)
	require.NoError(t, err)
	require.Equal(t, "0", got.String())

	f, err = InterpolationTruncate.Func()
	require.NoError(t, err)
	got, err = f(newPolynomial(0, 0, 1).shares(1, 2, 4), 0)
	require.NoError(t, err)
	require.Equal(t, "-1", got.String())

	_, err = Interpolation("float").Func()
	require.Error(t, err)
}

func TestInterpolateRandomPolynomial(t *testing.T) {
	r := gutils.NewRand()
	for trial := 0; trial < 50; trial++ {
		degree := r.Intn(8)
		p := randomPolynomial(r, degree)

		seen := map[int64]bool{}
		var idx []int64
		for len(idx) < degree+1 {
			x := int64(r.Intn(1000) + 1)
			if !seen[x] {
				seen[x] = true
				idx = append(idx, x)
			}
		}
		points := p.shares(idx...)

		for _, x := range []int64{0, int64(r.Intn(2000)) - 1000, idx[0]} {
			got, err := Interpolate(points, x)
			require.NoError(t, err)
			require.Equal(t, p.evaluate(x).String(), got.String(),
				"trial %d, degree %d, x %d", trial, degree, x)
		}
	}
}

func BenchmarkInterpolate(b *testing.B) {
	r := gutils.NewRand()
	p := randomPolynomial(r, 9)
	points := p.shares(seq(1, 10)...)

	b.Run("exact", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := Interpolate(points, 0); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("truncate", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := InterpolateTruncated(points, 0); err != nil {
				b.Fatal(err)
			}
		}
	})
}
