package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "precalc",
		Short: "OUS demographics data tooling: baseline precalculation and survey import",
	}

	var envFile string
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to .env configuration file")

	rootCmd.AddCommand(baselineCmd(&envFile))
	rootCmd.AddCommand(importCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
