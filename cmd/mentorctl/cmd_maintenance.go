package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/database"
	"github.com/mentorconnect/backend/internal/events"
	"github.com/mentorconnect/backend/internal/services"
)

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Mentor rating maintenance",
}

var recomputeMentor string

// mentorctl ratings recompute [--mentor id]
var ratingsRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute mentor rating and review count from stored reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close()

		agg := services.NewRatingAggregator(store)
		if recomputeMentor != "" {
			id, err := uuid.Parse(recomputeMentor)
			if err != nil {
				return fmt.Errorf("invalid mentor id: %w", err)
			}
			if err := agg.Recompute(cmd.Context(), nil, id); err != nil {
				return err
			}
			fmt.Printf("Recomputed rating for mentor %s\n", id)
			return nil
		}

		n, err := agg.RecomputeAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Recomputed ratings for %d mentors\n", n)
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session lifecycle maintenance",
}

// mentorctl sessions complete-due
var sessionsCompleteDueCmd = &cobra.Command{
	Use:   "complete-due",
	Short: "Mark accepted sessions whose scheduled end has passed as completed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close()

		fileSettings, err := config.LoadSettingsFile(cfg.SettingsPath)
		if err != nil {
			return err
		}
		publisher := events.New(cfg.NATSURL)
		defer publisher.Close()

		settings := services.NewSettingsService(store, fileSettings)
		sessions := services.NewSessionService(store, settings, publisher, cfg.MeetingBaseURL)
		n, err := sessions.CompleteDue(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Completed %d sessions\n", n)
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Platform settings",
}

// mentorctl settings show
var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective platform settings as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close()

		fileSettings, err := config.LoadSettingsFile(cfg.SettingsPath)
		if err != nil {
			return err
		}
		current, err := services.NewSettingsService(store, fileSettings).Current(cmd.Context())
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(current)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	ratingsRecomputeCmd.Flags().StringVar(&recomputeMentor, "mentor", "", "only recompute this mentor profile id")
	ratingsCmd.AddCommand(ratingsRecomputeCmd)
	sessionsCmd.AddCommand(sessionsCompleteDueCmd)
	settingsCmd.AddCommand(settingsShowCmd)
}
