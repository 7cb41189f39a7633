package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	gutils "github.com/Laisky/shamir-recovery"
	"github.com/Laisky/shamir-recovery/config"
	"github.com/Laisky/shamir-recovery/crypto/threshold/shamir"
	glog "github.com/Laisky/shamir-recovery/log"
)

// stdinName is the file arg that reads from stdin
const stdinName = "-"

func newRecoverCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "recover [file ...]",
		Short: "recover secret and wrong share from share files",
		Long: gutils.Dedent(`
			Recover the secret and the wrong share from every input file.

			Each file is a JSON document:

				{
					"keys": {"n": 4, "k": 3},
					"1": {"base": "10", "value": "9"},
					"2": {"base": "16", "value": "f"}
				}

			"-" or no file reads from stdin. Files are searched concurrently,
			results are printed in args order, each under a "== <file>" header
			when more than one file is given.

				$ shamir-recover recover a.json b.json --format=json
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecover(cmd, cfg, args)
		},
	}
}

type recoverFlags struct {
	Format        string        `mapstructure:"format"`
	Interpolation string        `mapstructure:"interpolation"`
	MaxPairs      int           `mapstructure:"max-pairs"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type recoverSettings struct {
	format  outputFormat
	timeout time.Duration
	opts    []shamir.RecoverOption
}

func loadRecoverSettings(cfg *config.Config) (*recoverSettings, error) {
	var flags recoverFlags
	if err := cfg.Unmarshal(&flags); err != nil {
		return nil, errors.Wrap(err, "parse settings")
	}

	format, err := parseOutputFormat(flags.Format)
	if err != nil {
		return nil, err
	}

	mode := shamir.Interpolation(flags.Interpolation)
	if _, err = mode.Func(); err != nil {
		return nil, err
	}

	if flags.MaxPairs < 0 {
		return nil, errors.Errorf("max-pairs should not be negative, got %d", flags.MaxPairs)
	}
	if flags.Timeout < 0 {
		return nil, errors.Errorf("timeout should not be negative, got %s", flags.Timeout)
	}

	return &recoverSettings{
		format:  format,
		timeout: flags.Timeout,
		opts: []shamir.RecoverOption{
			shamir.WithInterpolation(mode),
			shamir.WithMaxPairs(flags.MaxPairs),
		},
	}, nil
}

func runRecover(cmd *cobra.Command, cfg *config.Config, args []string) error {
	st, err := loadRecoverSettings(cfg)
	if err != nil {
		return errors.Wrap(err, "load settings")
	}

	if len(args) == 0 {
		args = []string{stdinName}
	}

	var nStdin int
	for _, name := range args {
		if name == stdinName {
			nStdin++
		}
	}
	if nStdin > 1 {
		return errors.Errorf("stdin %q can only be read once", stdinName)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outputs := make([]string, len(args))
	pool, gctx := errgroup.WithContext(ctx)
	for i, name := range args {
		i, name := i, name
		pool.Go(func() error {
			data, err := readInput(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}

			if outputs[i], err = recoverOne(gctx, st, name, data); err != nil {
				return errors.Wrapf(err, "recover %q", name)
			}

			return nil
		})
	}
	if err = pool.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, out := range outputs {
		if len(args) > 1 {
			if _, err = io.WriteString(w, "== "+args[i]+"\n"); err != nil {
				return errors.Wrap(err, "write output")
			}
		}

		if _, err = io.WriteString(w, out); err != nil {
			return errors.Wrap(err, "write output")
		}
	}

	return nil
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}

		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read file %q", name)
	}

	return data, nil
}

// recoverOne parse one input document and search it.
//
// a share set that can not be recovered is rendered as the failure result,
// only malformed input and invalid arguments are returned as error.
func recoverOne(ctx context.Context, st *recoverSettings, name string, data []byte) (string, error) {
	logger := glog.Shared.Named("recover").With(zap.String("input", name))

	in, err := shamir.ParseInput(data)
	if err != nil {
		return "", errors.Wrap(err, "parse input")
	}

	if in.N != len(in.Shares) {
		logger.Warn("declared n does not match the number of shares",
			zap.Int("n", in.N), zap.Int("shares", len(in.Shares)))
	}
	if distinct := in.DistinctIndices(); distinct != len(in.Shares) {
		logger.Warn("duplicate share indices",
			zap.Int("distinct", distinct), zap.Int("shares", len(in.Shares)))
	}

	if st.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.timeout)
		defer cancel()
	}

	opts := make([]shamir.RecoverOption, 0, len(st.opts)+1)
	opts = append(opts, st.opts...)
	opts = append(opts, shamir.WithLogger(logger))

	startAt := time.Now()
	rec, err := shamir.Recover(ctx, in.Shares, in.K, opts...)
	if err != nil {
		if !errors.Is(err, shamir.ErrNotRecovered) {
			return "", errors.Wrap(err, "search")
		}

		logger.Warn("secret not recovered", zap.Error(err),
			zap.Duration("cost", time.Since(startAt)))
		return render(st.format, nil)
	}

	if rec.Witnesses == 0 {
		logger.Warn("no corruption found, the reported share lies on the polynomial",
			zap.Int("n", len(in.Shares)), zap.Int("k", in.K))
	}
	logger.Info("secret recovered",
		zap.Int64("wrong_share", rec.WrongShare.Index),
		zap.Int64s("subset", rec.Subset),
		zap.Int("witnesses", rec.Witnesses),
		zap.Int("pairs", rec.Pairs),
		zap.Duration("cost", time.Since(startAt)))

	return render(st.format, rec)
}
