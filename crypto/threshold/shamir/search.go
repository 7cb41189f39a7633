package shamir

import (
	"context"
	"math/big"

	"github.com/Laisky/errors/v2"
	zap "github.com/Laisky/zap"

	glog "github.com/Laisky/shamir-recovery/log"
)

// Recovery result of a successful search
type Recovery struct {
	// Secret value of the candidate polynomial at zero
	Secret *big.Int
	// WrongShare the share dropped from the accepted candidate
	WrongShare Share
	// I, J positions of the accepted pair in the ordered share set,
	// J is the position of WrongShare
	I, J int
	// Subset indices of the k shares the polynomial was interpolated from
	Subset []int64
	// Witnesses number of shares outside Subset (WrongShare excluded)
	// that were verified against the polynomial.
	//
	// zero only happens when n = k+1, the candidate is then accepted
	// because WrongShare lies on the polynomial, so no corruption was found.
	Witnesses int
	// Pairs number of (i, j) pairs visited, the accepted one included
	Pairs int
}

type recoverOption struct {
	interpolation Interpolation
	interpolate   InterpolateFunc
	maxPairs      int
	logger        glog.Logger
}

func (o *recoverOption) fillDefault() *recoverOption {
	o.interpolation = InterpolationExact
	o.interpolate = Interpolate
	o.logger = glog.Shared.Named("search")
	return o
}

func (o *recoverOption) applyOpts(optfs ...RecoverOption) (*recoverOption, error) {
	for _, optf := range optfs {
		if err := optf(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// RecoverOption option for Recover
type RecoverOption func(*recoverOption) error

// WithInterpolation set how lagrange terms are divided, default to InterpolationExact
func WithInterpolation(mode Interpolation) RecoverOption {
	return func(o *recoverOption) error {
		f, err := mode.Func()
		if err != nil {
			return err
		}

		o.interpolation = mode
		o.interpolate = f
		return nil
	}
}

// WithMaxPairs stop the search after visiting max (i, j) pairs,
// 0 means unlimited
func WithMaxPairs(max int) RecoverOption {
	return func(o *recoverOption) error {
		if max < 0 {
			return errors.Errorf("max pairs should not be negative, got %d", max)
		}

		o.maxPairs = max
		return nil
	}
}

// WithLogger set logger
func WithLogger(logger glog.Logger) RecoverOption {
	return func(o *recoverOption) error {
		if logger == nil {
			return errors.Errorf("logger should not be nil")
		}

		o.logger = logger
		return nil
	}
}

// candidate verdict for the pool that drops position j
type candidate struct {
	secret    *big.Int
	subset    []Share
	witnesses int
	err       error
}

// Recover search for k mutually consistent shares and the single wrong share.
//
// For every ordered pair (i, j) of positions in shares with i != j,
// outer i ascending and inner j ascending, the share at j is dropped and
// the first k of the remaining shares are interpolated. The candidate is
// accepted when every other remaining share lies on that polynomial.
// When no other share remains (len(shares) == k+1), the dropped share itself
// must lie on the polynomial too, so a corrupted set of k+1 shares is
// reported as not recovered instead of guessed. The first accepted pair wins.
//
// Candidates that fail to interpolate (duplicate indices, non-integral values)
// are skipped. Returns an error wrapping ErrNotRecovered when no pair is
// accepted, when ctx is done, or when the pair limit is reached.
func Recover(ctx context.Context, shares []Share, k int, opts ...RecoverOption) (*Recovery, error) {
	opt, err := new(recoverOption).fillDefault().applyOpts(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "apply options")
	}
	if k < 1 {
		return nil, errors.Errorf("k should be positive, got %d", k)
	}

	logger := opt.logger.With(
		zap.Int("n", len(shares)),
		zap.Int("k", k),
		zap.String("interpolation", opt.interpolation.String()),
	)
	if len(shares)-1 < k {
		return nil, errors.Wrapf(ErrNotRecovered,
			"need at least %d shares to drop one, got %d", k+1, len(shares))
	}

	// a candidate only depends on j, so each pool is evaluated once
	verdicts := make([]*candidate, len(shares))
	var pairs int
	for i := range shares {
		for j := range shares {
			if i == j {
				continue
			}

			if err = ctx.Err(); err != nil {
				return nil, errors.Wrapf(ErrNotRecovered, "search aborted after %d pairs: %v", pairs, err)
			}
			if opt.maxPairs > 0 && pairs >= opt.maxPairs {
				return nil, errors.Wrapf(ErrNotRecovered, "pair limit %d reached", opt.maxPairs)
			}
			pairs++

			c := verdicts[j]
			if c == nil {
				c = opt.evaluate(shares, k, j)
				verdicts[j] = c
				if c.err != nil {
					logger.Debug("skip candidate",
						zap.Int("i", i),
						zap.Int("j", j),
						zap.Int64("dropped", shares[j].Index),
						zap.Error(c.err))
				}
			}
			if c.err != nil {
				continue
			}

			rec := &Recovery{
				Secret:     c.secret,
				WrongShare: shares[j],
				I:          i,
				J:          j,
				Subset:     indices(c.subset),
				Witnesses:  c.witnesses,
				Pairs:      pairs,
			}
			logger.Debug("found consistent candidate",
				zap.Int("i", i),
				zap.Int("j", j),
				zap.Int64s("subset", rec.Subset),
				zap.Int("witnesses", rec.Witnesses),
				zap.Int("pairs", pairs))
			return rec, nil
		}
	}

	return nil, errors.Wrapf(ErrNotRecovered, "no consistent candidate in %d pairs", pairs)
}

// evaluate the candidate that drops the share at position j
func (o *recoverOption) evaluate(shares []Share, k, j int) *candidate {
	pool := make([]Share, 0, len(shares)-1)
	pool = append(pool, shares[:j]...)
	pool = append(pool, shares[j+1:]...)
	subset := pool[:k:k]

	secret, err := o.interpolate(subset, 0)
	if err != nil {
		return &candidate{err: errors.Wrap(err, "interpolate secret")}
	}

	c := &candidate{
		secret: secret,
		subset: subset,
	}
	for _, s := range pool[k:] {
		predicted, err := o.interpolate(subset, s.Index)
		if err != nil {
			c.err = errors.Wrapf(err, "interpolate at %d", s.Index)
			return c
		}
		if predicted.Cmp(s.Value) != 0 {
			c.err = errors.Wrapf(ErrInconsistentShare,
				"share %d: predicted %s, got %s", s.Index, predicted, s.Value)
			return c
		}

		c.witnesses++
	}

	// with n = k+1 nothing is left to reject a wrong polynomial,
	// so only accept it when the dropped share agrees as well
	if c.witnesses == 0 {
		predicted, err := o.interpolate(subset, shares[j].Index)
		if err != nil {
			c.err = errors.Wrapf(err, "interpolate at %d", shares[j].Index)
			return c
		}
		if predicted.Cmp(shares[j].Value) != 0 {
			c.err = errors.Wrapf(ErrInconsistentShare,
				"no share to verify, dropped share %d: predicted %s, got %s",
				shares[j].Index, predicted, shares[j].Value)
			return c
		}
	}

	return c
}
