package main

import (
	"fmt"
	"os"

	"tutoreval/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree; cfg supplies the flag defaults
func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tutoreval",
		Short:         "Tutor response evaluation tooling: batch sampling, annotation aggregation and judge prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAggregateCmd(cfg),
		newSampleCmd(cfg),
		newScoreCmd(),
		newPromptCmd(),
		newParseCmd(),
		newGenerateCmd(),
	)
	return rootCmd
}
