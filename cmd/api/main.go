package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rentwise/internal/config"
	"rentwise/internal/database"
	"rentwise/internal/logger"

	_ "rentwise/internal/docs" // Import swagger docs
)

// @title           Rentwise API
// @version         1.0
// @description     Rentwise lets realtors manage units, tenants and leases, and tracks the rent payment schedule of every lease.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey OpsAPIKey
// @in header
// @name X-API-Key

var appConfig *config.Config

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rentwise",
		Short:         "Rentwise property management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger.Init(cfg.Env, cfg.LogLevel)
			appConfig = cfg
			return nil
		},
	}

	cmd.AddCommand(
		serveCmd(),
		realtorCmd(),
		reconcileCmd(),
	)
	return cmd
}

// openDatabase connects to the configured database.
func openDatabase() (*database.Manager, error) {
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	return dbManager, nil
}

func withDatabase(fn func(*database.Manager) error) error {
	m, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Get().Warnw("failed to close database", "error", err)
		}
	}()
	return fn(m)
}
