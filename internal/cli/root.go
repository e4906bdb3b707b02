package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "battleship",
		Short: "Websocket battleship game server",
		Long: `battleship runs the multiplayer battleship game server.

Clients connect over a websocket endpoint and exchange JSON frames for
login, room management, ship placement, shooting and chat. Match history
can be kept in memory or in Redis.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
