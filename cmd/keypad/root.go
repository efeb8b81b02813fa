package main

import (
	"fmt"
	"os"
	"time"

	"go-chi-calculator/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keypad",
	Short: "Calculator keypad backed by a remote calculation service",
	Long: `keypad assembles operands from key presses and delegates every
calculation to the calculator API. Use "serve" to expose the keypad over HTTP
or "eval" to run a key sequence once.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String(config.FlagRemoteURL, "http://localhost:8080", "Base URL of the calculator API (KEYPAD_REMOTE_URL)")
	rootCmd.PersistentFlags().Duration(config.FlagRequestTimeout, 0, "Per-calculation timeout, 0 waits indefinitely (KEYPAD_REQUEST_TIMEOUT)")

	serveCmd.Flags().String(config.FlagAddr, ":8081", "Listen address for the keypad panel (KEYPAD_ADDR)")
	serveCmd.Flags().Duration(config.FlagHeartbeat, 15*time.Second, "Keep-alive interval of the event stream (KEYPAD_HEARTBEAT)")

	rootCmd.AddCommand(serveCmd, evalCmd)
}

// loadConfig resolves flags, KEYPAD_* variables and defaults for cmd.
func loadConfig(cmd *cobra.Command) (config.Keypad, error) {
	v, err := config.NewKeypadViper(cmd.Flags())
	if err != nil {
		return config.Keypad{}, err
	}
	return config.LoadKeypad(v)
}
