package cmd

import (
	"fmt"
	"os"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	gutils "github.com/Laisky/shamir-recovery"
	"github.com/Laisky/shamir-recovery/config"
	glog "github.com/Laisky/shamir-recovery/log"
)

var rootCmd = newRootCmd(config.Shared)

func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shamir-recover",
		Short: "recover a shamir secret from shares with one corrupted",
		Long: gutils.Dedent(`
			Recover the secret of a threshold secret sharing from n shares,
			where at most one share is corrupted, and report the wrong share.

			Without sub command, shares are read from stdin:

				$ cat shares.json
				{
					"keys": {"n": 5, "k": 3},
					"1": {"base": "10", "value": "9"},
					"2": {"base": "10", "value": "15"},
					"3": {"base": "16", "value": "17"},
					"4": {"base": "10", "value": "999"},
					"5": {"base": "10", "value": "45"}
				}
				$ shamir-recover < shares.json
				Secret: 5
				Wrong Share: 4 (999)

			A corrupted share can only be identified when n >= k+2,
			with n = k+1 the search succeeds only if no share is corrupted.
		`),
		Args:          NoExtraArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupSettings(cfg, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecover(cmd, cfg, args)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "debug")
	cmd.PersistentFlags().String("log-level", glog.LevelInfo.String(),
		"log level, debug/info/warn/error")
	cmd.PersistentFlags().String("log-format", glog.EncodingConsole.String(), "log format, console/json")
	cmd.PersistentFlags().String("log-output", "stderr", "log file path, stdout is reserved for results")
	cmd.PersistentFlags().StringP("config", "c", "", "yaml settings file")
	cmd.PersistentFlags().String("format", string(formatText), "output format, text/json")
	cmd.PersistentFlags().String("interpolation", "exact",
		"exact: rational arithmetic, truncate: integer division per lagrange term")
	cmd.PersistentFlags().Int("max-pairs", 0,
		"stop the search after visiting this many (i, j) pairs, 0 means unlimited")
	cmd.PersistentFlags().Duration("timeout", 0, "stop the search after this duration, 0 means unlimited")

	cmd.AddCommand(newRecoverCmd(cfg))
	return cmd
}

type logSettings struct {
	Debug  bool   `mapstructure:"debug"`
	Level  string `mapstructure:"log-level"`
	Format string `mapstructure:"log-format"`
	Output string `mapstructure:"log-output"`
}

// setupSettings bind flags, load settings file and replace the shared logger
func setupSettings(cfg *config.Config, cmd *cobra.Command) error {
	if err := cfg.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if fpath := cfg.GetString("config"); fpath != "" {
		if err := cfg.LoadFromFile(fpath, config.WithSettingsEnableInclude()); err != nil {
			return errors.Wrap(err, "load settings")
		}
	}

	var st logSettings
	if err := cfg.Unmarshal(&st); err != nil {
		return errors.Wrap(err, "parse log settings")
	}

	level := glog.Level(st.Level)
	if st.Debug {
		level = glog.LevelDebug
	}

	logger, err := glog.New(
		glog.WithLevel(level),
		glog.WithEncoding(glog.Encoding(st.Format)),
		glog.WithOutputPaths([]string{st.Output}),
	)
	if err != nil {
		return errors.Wrap(err, "new logger")
	}

	glog.Shared = logger
	logger.Debug("logger ready",
		zap.String("level", logger.Level().String()),
		zap.String("output", st.Output))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
//
// exit with 1 on malformed input or invalid arguments,
// an unrecoverable share set is not an error.
func Execute() {
	defer func() {
		_ = glog.Shared.Sync()
	}()

	if err := rootCmd.Execute(); err != nil {
		glog.Shared.Error("run command", zap.Error(err))
		_ = glog.Shared.Sync()
		os.Exit(1)
	}
}

// NoExtraArgs make sure every args has been processed
//
// do not allow any un processed args
func NoExtraArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown args `%v`", args)
	}

	return nil
}
