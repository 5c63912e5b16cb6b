// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xataio/pgshift/cmd/config"
	"github.com/xataio/pgshift/internal/profiling"
	"github.com/xataio/pgshift/pkg/otel"
)

// Version is the pgshift version
var (
	Version = "development"
	Env     string
)

// viper keys, also read from the environment with the PGSHIFT_ prefix, as in
// PGSHIFT_LOG_LEVEL
const (
	logLevelKey   = "log_level"
	logFormatKey  = "log_format"
	profileDirKey = "profile_dir"
)

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pgshift",
		Short:        "pgshift moves data between databases, anonymizing and synthesizing it on the way",
		SilenceUsage: true,
		Version:      version(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// variables set in the environment take precedence over the .env file
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading .env file: %w", err)
			}

			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			return nil
		},
	}

	viper.SetEnvPrefix("PGSHIFT")
	viper.AutomaticEnv()

	// Flag definition

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".yaml config file to use with pgshift")
	rootCmd.PersistentFlags().String("log-level", "info", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().String("log-format", "console", "log output format. One of console, json")

	// run cmd
	runCmd.Flags().Bool("skip-collect", false, "Skip the collection stage and transform the artifacts already in the store")
	runCmd.Flags().Bool("skip-transform", false, "Skip the transformation stage and load the collected artifacts as they are")
	runCmd.Flags().Bool("skip-load", false, "Skip loading the transformed artifacts into the destination")
	runCmd.Flags().Bool("skip-postprocess", false, "Skip the post-processing tasks")
	runCmd.Flags().Bool("progress", false, "Render a progress bar per transformed table")
	runCmd.Flags().Bool("profile", false, "Whether to produce CPU and memory profile files, as well as exposing a /debug/pprof endpoint on localhost:6060")

	// validate cmd
	validateCmd.Flags().Bool("json", false, "Output the validated table plan in JSON format")

	// transformers cmd
	transformersCmd.Flags().Bool("json", false, "Output the supported transformers in JSON format")

	// Flag binding for root cmd
	rootFlagBinding(rootCmd)

	// register subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(transformersCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

func withSignalWatcher(fn func(ctx context.Context, cmd *cobra.Command) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(),
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer cancel()
		return fn(ctx, cmd)
	}
}

func withProfiling(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) (err error) {
	return func(cmd *cobra.Command, args []string) (err error) {
		if enabled, _ := cmd.Flags().GetBool("profile"); !enabled {
			return fn(cmd, args)
		}

		profiler, err := profiling.Start(profiling.Config{
			Dir:           viper.GetString(profileDirKey),
			ServerAddress: "localhost:6060",
		})
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, profiler.Stop())
		}()

		return fn(cmd, args)
	}
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag(logLevelKey, cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(logFormatKey, cmd.PersistentFlags().Lookup("log-format"))
}

func version() string {
	if Env != "" {
		return Env + " (" + Version + ")"
	}
	return Version
}

func newInstrumentationProvider() (otel.InstrumentationProvider, error) {
	cfg, err := config.ParseInstrumentationConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing instrumentation config: %w", err)
	}

	p, err := otel.NewInstrumentationProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialising instrumentation provider: %w", err)
	}
	return p, nil
}
