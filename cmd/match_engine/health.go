package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/logger"
)

var healthConfigPath string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print provider health and cache statistics",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&healthConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(healthConfigPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	eng, cleanup, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	status := struct {
		Providers any `json:"providers"`
		Cache     any `json:"cache"`
	}{
		Providers: eng.ProviderHealth(),
		Cache:     eng.CacheStats(),
	}

	encoded, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
