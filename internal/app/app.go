package app

import (
	"github.com/spf13/cobra"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{Use: "chainsentinel", Short: "Multi-chain smart contract security and compliance engine"}
	cli.AddCommands(root)
	return root
}
