package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/cache"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/report"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/tui"
)

func AddCommands(root *cobra.Command) {
	root.AddCommand(newScanCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newPoliciesCmd())
	root.AddCommand(newWorkflowsCmd())
	root.AddCommand(newDemoCmd())
}

func newScanCmd() *cobra.Command {
	var (
		language   string
		format     string
		outputFile string
		useTUI     bool
		failOn     string
		noCache    bool
	)
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a contract source file for vulnerabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			scanner := scan.New()

			var result *model.VulnerabilityReport
			key := cache.Key(string(data), language, scanner.RuleSetVersion())
			if !noCache {
				if cached, ok := cache.Load(key); ok {
					var r model.VulnerabilityReport
					if json.Unmarshal(cached, &r) == nil {
						result = &r
					}
				}
			}
			if result == nil {
				result, err = scanner.Scan(cmd.Context(), scan.Request{
					ContractName: filepath.Base(args[0]),
					Source:       string(data),
					LanguageHint: language,
				})
				if err != nil {
					return err
				}
				if !noCache {
					if b, err := json.Marshal(result); err == nil {
						_ = cache.Store(key, b)
					}
				}
			}

			if useTUI {
				return tui.Run(result)
			}
			switch format {
			case "json":
				out, _ := json.MarshalIndent(result, "", "  ")
				if outputFile != "" {
					return os.WriteFile(outputFile, out, 0o644)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			case "sarif":
				out, err := report.ToSARIF(result, scanner.RuleSetVersion())
				if err != nil {
					return err
				}
				if outputFile != "" {
					return os.WriteFile(outputFile, out, 0o644)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] risk=%d (%s)\n",
					result.ContractName, result.Language, result.RiskScore.Score, result.RiskScore.Level)
				for _, f := range result.Findings {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s [%s] line %d %s\n", f.RuleID, f.Severity, f.Line, f.Title)
				}
				if result.Note != "" {
					fmt.Fprintln(cmd.OutOrStdout(), result.Note)
				}
			}

			if failOn != "" {
				threshold := model.ParseSeverity(strings.ToLower(failOn))
				for _, f := range result.Findings {
					if model.SeverityGTE(f.Severity, threshold) {
						return fmt.Errorf("fail-on threshold met: %s", f.Severity)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint: move|solidity|rust")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table|json|sarif")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write report to file")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Render interactive TUI output")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit non-zero if a finding of this severity or higher exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the on-disk report cache")
	return cmd
}
