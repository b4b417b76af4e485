// @title           Community Issues API
// @version         1.0
// @description     Municipal issue reporting: reports, comments, notifications and accounts.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /api

package main

import (
	"fmt"
	"os"

	"community_issues/internal/app"
	"community_issues/internal/config"
	"community_issues/internal/database"
	"community_issues/internal/logger"

	_ "community_issues/docs"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configPath string
	seedDemo   bool
)

var rootCmd = &cobra.Command{
	Use:   "community-issues",
	Short: "Community issue reporting backend",
	Long: `Serves the community issue reporting API.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(cfg *config.Config, db *gorm.DB) error {
			logger.Info("Schema is up to date")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the reviewer account, and optionally demo reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(cfg *config.Config, db *gorm.DB) error {
			if err := database.SeedReviewer(db, cfg); err != nil {
				return err
			}
			if seedDemo {
				return database.SeedDemo(db)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default $CONFIG_PATH or config/config.yaml)")
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also insert demo users and reports")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		if err := config.LoadConfig(); err != nil {
			return nil, err
		}
		return config.GetConfig(), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	config.AppConfig = cfg
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return app.Run(cfg)
}

// withDB opens and migrates the configured database for one-shot commands.
func withDB(fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Server.Env)

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	return fn(cfg, db)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
