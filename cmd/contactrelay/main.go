package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osa911/contactrelay/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "contactrelay",
	Short: "Contact form relay",
	Long: `contactrelay receives contact form submissions over HTTP, validates them
and forwards each one as an email through Resend.

Run 'contactrelay serve' to start the relay, or 'contactrelay submit' to send a
submission to a running relay from the command line.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "contactrelay %s\n", version.Info())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)

	// Client commands share the relay address
	for _, cmd := range []*cobra.Command{submitCmd, healthCmd} {
		cmd.Flags().String("url", "", "Relay base URL (default: $CONTACTRELAY_URL or http://localhost:3001)")
	}

	submitCmd.Flags().String("name", "", "Your name")
	submitCmd.Flags().String("email", "", "Your email address")
	submitCmd.Flags().String("message", "", "Message to send (use - to read from stdin)")
	submitCmd.MarkFlagRequired("name")
	submitCmd.MarkFlagRequired("email")
	submitCmd.MarkFlagRequired("message")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
