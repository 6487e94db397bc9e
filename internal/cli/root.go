package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serverEnv = "TTTCTL_SERVER"

type app struct {
	serverURL string
	format    string

	client *Client
	out    *output
}

func NewRootCmd() *cobra.Command {
	a := &app{
		serverURL: "http://localhost:9090",
		format:    formatText,
	}

	if server := os.Getenv(serverEnv); server != "" {
		a.serverURL = server
	}

	rootCmd := &cobra.Command{
		Use:   "tttctl",
		Short: "Command line client for the tic-tac-toe game server",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.format != formatText && a.format != formatJSON {
				return fmt.Errorf("unknown output format %q", a.format)
			}

			a.client = NewClient(a.serverURL)
			a.out = &output{w: cmd.OutOrStdout(), format: a.format}

			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.serverURL, "server", a.serverURL, "Server URL (env: "+serverEnv+")")
	rootCmd.PersistentFlags().StringVarP(&a.format, "output", "o", a.format, "Output format: text, json")

	rootCmd.AddCommand(a.newGameCmd())
	rootCmd.AddCommand(a.newLeaderboardCmd())
	rootCmd.AddCommand(a.newPlayerCmd())
	rootCmd.AddCommand(a.newMirrorCmd())
	rootCmd.AddCommand(a.newPingCmd())

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
