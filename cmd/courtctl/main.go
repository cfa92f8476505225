package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host  string
	token string
)

var rootCmd = &cobra.Command{
	Use:   "courtctl",
	Short: "A CLI to interact with the courtmatch server",
	Long: `A command-line interface for the courtmatch API: join and leave session
queues, generate match pools and run matches to completion.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("COURTMATCH_TOKEN"), "Bearer token issued by /auth/login")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "courtctl: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
