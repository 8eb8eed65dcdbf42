package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/logging"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/workflow"
)

func newWorkflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "List and run multi-step analysis workflows",
	}
	cmd.AddCommand(newWorkflowsListCmd(), newWorkflowsRunCmd())
	return cmd
}

func newWorkflowsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch := workflow.NewOrchestrator(workflow.NewLocalRunner(scan.New()), logging.Named("workflow"))
			for _, w := range orch.Workflows() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s (%d steps)\n", w.ID, w.Name, len(w.Steps))
				for i, s := range w.Steps {
					fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s: %s\n", i+1, s.Agent, s.Task)
				}
			}
			return nil
		},
	}
}

func newWorkflowsRunCmd() *cobra.Command {
	var (
		language string
		chains   []string
	)
	cmd := &cobra.Command{
		Use:   "run <workflow_id> <file>",
		Short: "Run a workflow over a contract source file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			orch := workflow.NewOrchestrator(workflow.NewLocalRunner(scan.New()), logging.Named("workflow"))
			result, err := orch.Execute(cmd.Context(), args[0], string(data), model.ParseLanguage(language), chains)
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint: move|solidity|rust")
	cmd.Flags().StringSliceVar(&chains, "chains", nil, "Chains for cross-chain analysis")
	return cmd
}
