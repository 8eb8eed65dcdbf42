package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/demo"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Work with the bundled vulnerable sample contracts",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List demo contracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range demo.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-8s %s\n", c.Name, c.Language, c.Description)
			}
			return nil
		},
	}
	analyze := &cobra.Command{
		Use:   "analyze <name>",
		Short: "Scan a demo contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := demo.Get(args[0])
			if err != nil {
				return err
			}
			result, err := scan.New().Scan(cmd.Context(), scan.Request{
				ContractName: c.Name,
				Source:       c.Source,
				LanguageHint: c.Language,
			})
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.AddCommand(list, analyze)
	return cmd
}
