// Command genai calls the hosted embedding and rerank services from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var environment string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genai",
		Short: "Query the hosted embedding and rerank models",
		Long: `genai sends text to the hosted embedding and rerank services and prints the
answer as JSON on stdout. Configuration comes from the environment and .env.<env>.

Examples:
  # Embed passages
  genai embed "first passage" "second passage"

  # Embed a search query
  genai embed --query "what was the revenue in 2023"

  # Rerank passages against a query, keeping the best two
  genai rerank --top-n 2 "revenue in 2023" "passage one" "passage two" "passage three"`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&environment, "env", "local", "Environment name used to pick the .env file")

	cmd.AddCommand(newEmbedCmd())
	cmd.AddCommand(newRerankCmd())

	return cmd
}
