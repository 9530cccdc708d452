package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	// .env is optional; environment overrides still apply without one.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "tasknest",
		Short:   "Tasknest - task/user REST API with assignment consistency",
		Version: Version,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
