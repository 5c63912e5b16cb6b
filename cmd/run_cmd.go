// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xataio/pgshift/cmd/config"
	"github.com/xataio/pgshift/internal/log/zerolog"
	"github.com/xataio/pgshift/pkg/stream"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run collects, transforms and loads the configured tables, then runs the post-processing tasks",
	RunE:  withProfiling(withSignalWatcher(run)),
	Example: `
	pgshift run --config config.yaml
	pgshift run --config config.yaml --skip-collect --progress
	pgshift run -c config.yaml --skip-load --log-level debug`,
}

func run(ctx context.Context, cmd *cobra.Command) error {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: viper.GetString(logLevelKey),
		Format:   viper.GetString(logFormatKey),
	})
	zerolog.SetGlobalLogger(logger)

	streamConfig, err := config.ParseStreamConfig()
	if err != nil {
		return fmt.Errorf("parsing stream config: %w", err)
	}

	opts, err := runOptions(cmd.Flags())
	if err != nil {
		return err
	}

	provider, err := newInstrumentationProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	return stream.Run(ctx, zerolog.NewStdLogger(logger), streamConfig, opts, provider.NewInstrumentation("run"))
}

func runOptions(flagSet *pflag.FlagSet) (stream.RunOptions, error) {
	opts := stream.RunOptions{}
	flags := []struct {
		name string
		dst  *bool
	}{
		{name: "skip-collect", dst: &opts.SkipCollect},
		{name: "skip-transform", dst: &opts.SkipTransform},
		{name: "skip-load", dst: &opts.SkipLoad},
		{name: "skip-postprocess", dst: &opts.SkipPostProcess},
		{name: "progress", dst: &opts.Progress},
	}
	for _, f := range flags {
		v, err := flagSet.GetBool(f.name)
		if err != nil {
			return stream.RunOptions{}, fmt.Errorf("reading %s flag: %w", f.name, err)
		}
		*f.dst = v
	}
	return opts, nil
}
