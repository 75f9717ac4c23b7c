package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/database"
	"github.com/mentorconnect/backend/internal/repository"
)

// bootDB loads config and opens the database connection.
func bootDB() (*config.Config, repository.Store, error) {
	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, repository.NewGormStore(database.DB), nil
}

// mentorctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		fmt.Println("Running migrations…")
		if err := database.MigrateAll(); err != nil {
			return err
		}
		fmt.Printf("Migrated %d tables\n", len(database.Models()))
		return nil
	},
}

var seedPassword string

// mentorctl seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo admin, mentor and student accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close()
		n, err := seedDemo(cmd.Context(), store, seedPassword)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d accounts\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "password for every seeded account")
}
