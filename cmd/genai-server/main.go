package main

import (
	"log"

	"github.com/futig/genai-toolkit/internal/builder"
	"github.com/spf13/cobra"
)

func main() {
	var environment string

	cmd := &cobra.Command{
		Use:           "genai-server",
		Short:         "Serve text extraction, embeddings, rerank and chat sessions over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := builder.Build(environment)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
	cmd.Flags().StringVar(&environment, "env", "local", "Environment name used to pick the .env file")

	if err := cmd.Execute(); err != nil {
		log.Fatal("Application error: ", err)
	}
}
