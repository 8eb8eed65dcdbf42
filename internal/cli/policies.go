package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/policy"
)

func newPoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Inspect and toggle compliance policies",
	}
	cmd.AddCommand(newPoliciesListCmd(), newPoliciesToggleCmd())
	return cmd
}

func newPoliciesListCmd() *cobra.Command {
	var policyFile string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured compliance policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			policies, _, err := loadPolicies(policyFile)
			if err != nil {
				return err
			}
			for _, p := range policies {
				state := "disabled"
				if p.Enabled {
					state = "enabled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-20s %-8s %s\n", p.Name, p.Type, p.Severity, state)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&policyFile, "policy-file", "", "YAML policy set (defaults to the built-in set)")
	return cmd
}

// newPoliciesToggleCmd flips a policy on a running server; enabled flags live
// in the serve process, so this goes through the API.
func newPoliciesToggleCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "toggle <name>",
		Short: "Toggle a policy on a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := baseURL + "/api/compliance/policies/" + args[0] + "/toggle"
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPut, url, nil)
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				var detail struct {
					Detail string `json:"detail"`
				}
				if json.NewDecoder(resp.Body).Decode(&detail) == nil && detail.Detail != "" {
					return fmt.Errorf("toggle failed: %s", detail.Detail)
				}
				return fmt.Errorf("toggle failed: %s", resp.Status)
			}
			var body struct {
				Enabled bool `json:"enabled"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return err
			}
			state := "disabled"
			if body.Enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], state)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "server", "http://localhost:8000", "Base URL of the running server")
	return cmd
}

func loadPolicies(path string) ([]model.Policy, policy.Ruleset, error) {
	if path == "" {
		p, rs := policy.Defaults()
		return p, rs, nil
	}
	return policy.Load(path)
}
