package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mentorconnect/backend/internal/logging"
)

func main() {
	logging.Setup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "mentorctl",
	Short:         "MentorConnect operator CLI",
	Long:          "mentorctl runs migrations, seeds demo data and repairs derived state in the MentorConnect database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	// Maintenance
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(settingsCmd)
}
