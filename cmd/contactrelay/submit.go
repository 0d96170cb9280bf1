package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/osa911/contactrelay/internal/client"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send a contact form submission to a relay",
	Long: `Send one contact form submission to a running relay and print the result.

Example:
  contactrelay submit --name "Ada" --email ada@example.com --message "Hello"
  echo "Hello" | contactrelay submit --name "Ada" --email ada@example.com --message -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		message, _ := cmd.Flags().GetString("message")

		if message == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}
			message = strings.TrimRight(string(data), "\n")
		}

		form := client.NewForm(client.New(relayURL(cmd)))
		form.Set(name, email, message)

		// Spinner while the relay is sending
		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " Sending message..."
		s.Writer = cmd.ErrOrStderr()
		s.Start()
		resp, err := form.Submit(cmd.Context())
		s.Stop()

		fmt.Fprintln(cmd.OutOrStdout(), form.Status())

		if err != nil {
			if errors.Is(err, client.ErrRejected) {
				return err
			}
			return fmt.Errorf("relay unreachable: %w", err)
		}
		if resp.EmailID != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Email ID: %s\n", resp.EmailID)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that a relay is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		resp, err := client.New(relayURL(cmd)).Health(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
		return nil
	},
}

func relayURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("url"); u != "" {
		return u
	}
	if u := os.Getenv("CONTACTRELAY_URL"); u != "" {
		return u
	}
	return client.DefaultBaseURL
}
