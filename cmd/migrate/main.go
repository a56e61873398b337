package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"rentdesk-backend/internal/config"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository/postgres"
)

var configPath string

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "rentdesk-migrate",
		Short: "Rentdesk schema migrations",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")

	rootCmd.AddCommand(
		migrationCmd("up", "Apply all pending migrations"),
		migrationCmd("down", "Roll back the most recent migration"),
		migrationCmd("status", "Show migration status"),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrationCmd(command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			return postgres.Migrate(db, command)
		},
	}
}

// openDB connects using DATABASE_URL when set, otherwise the config file.
func openDB() (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Initialize(cfg.Log.Level, cfg.Log.Format)
		dsn = cfg.GetDatabaseConnectionString()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
