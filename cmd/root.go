package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/config"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Researcher ranking pipeline for Chilean social sciences",
	Long:  "Extracts researcher profiles from OpenAlex and Google Scholar, reconciles and cleans them against a curated registry, and produces discipline-classified citation rankings.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Credentials live in .env during local runs; absence is fine.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initStore() (*store.Store, error) {
	return store.NewSQLite(cfg.Store.Path, time.Duration(cfg.Store.CacheTTLHours)*time.Hour)
}

func loadRegistry() (*registry.Registry, error) {
	return registry.Load(cfg.Registry.Path)
}
