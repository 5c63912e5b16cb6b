// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xataio/pgshift/cmd/config"
	"github.com/xataio/pgshift/internal/json"
	"github.com/xataio/pgshift/pkg/stream"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the configuration and every configured transformer, without connecting to any database",
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, _ := pterm.DefaultSpinner.WithText("validating pgshift configuration...").Start()

		plan, err := func() ([]tablePlan, error) {
			streamConfig, err := config.ParseStreamConfig()
			if err != nil {
				return nil, fmt.Errorf("parsing stream config: %w", err)
			}

			if err := stream.ValidateConfig(context.Background(), streamConfig); err != nil {
				return nil, err
			}

			return newTablePlan(streamConfig)
		}()
		if err != nil {
			sp.Fail(err.Error())
			return err
		}
		sp.Success("configuration is valid")

		if err := printPlan(cmd, plan); err != nil {
			return fmt.Errorf("failed to format table plan: %w", err)
		}
		return nil
	},
	Example: `
	pgshift validate -c config.yaml
	pgshift validate -c config.yaml --json`,
}

type tablePlan struct {
	Table        string   `json:"table" yaml:"table"`
	Mode         string   `json:"mode" yaml:"mode"`
	Rows         int      `json:"rows,omitempty" yaml:"rows,omitempty"`
	Transformers []string `json:"transformers,omitempty" yaml:"transformers,omitempty"`
}

func newTablePlan(cfg *stream.Config) ([]tablePlan, error) {
	plan := make([]tablePlan, 0, len(cfg.Source.Tables))
	for _, t := range cfg.Source.Tables {
		mode, err := t.Mode()
		if err != nil {
			return nil, err
		}
		p := tablePlan{
			Table: t.Name,
			Mode:  string(mode),
			Rows:  t.Generate,
		}
		for _, tr := range t.Transformations {
			p.Transformers = append(p.Transformers, tr.Column+": "+string(tr.Transformer.Name))
		}
		plan = append(plan, p)
	}
	return plan, nil
}

func printPlan(cmd *cobra.Command, plan []tablePlan) error {
	var out []byte
	var err error
	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		out, err = json.MarshalIndent(plan)
	} else {
		out, err = yaml.Marshal(plan)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out)) //nolint:forbidigo
	return nil
}
