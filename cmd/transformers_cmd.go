// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/pgshift/internal/json"
	"github.com/xataio/pgshift/pkg/transformers/builder"
)

var transformersCmd = &cobra.Command{
	Use:   "transformers",
	Short: "Lists the supported transformers",
	// no configuration file is needed to list transformers
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		infos := builder.List()

		if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
			out, err := json.MarshalIndent(infos)
			if err != nil {
				return fmt.Errorf("formatting transformers: %w", err)
			}
			fmt.Println(string(out)) //nolint:forbidigo
			return nil
		}

		data := pterm.TableData{{"Name", "Description"}}
		for _, info := range infos {
			data = append(data, []string{info.Name, info.Description})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
	Example: `
	pgshift transformers
	pgshift transformers --json`,
}
