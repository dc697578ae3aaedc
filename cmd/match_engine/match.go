package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/logger"
	"github.com/jonathan/match-engine/internal/types"
)

var (
	matchConfigPath string
	matchResumePath string
	matchJobPath    string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score one resume against one job posting",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchConfigPath, "config", "", "Path to JSON config file")
	matchCmd.Flags().StringVar(&matchResumePath, "resume", "", "Path to resume profile JSON (required)")
	matchCmd.Flags().StringVar(&matchJobPath, "job", "", "Path to job profile JSON (required)")
	_ = matchCmd.MarkFlagRequired("resume")
	_ = matchCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(matchConfigPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var resume types.ResumeProfile
	if err := readJSONFile(matchResumePath, &resume); err != nil {
		return fmt.Errorf("failed to load resume profile: %w", err)
	}
	var job types.JobProfile
	if err := readJSONFile(matchJobPath, &job); err != nil {
		return fmt.Errorf("failed to load job profile: %w", err)
	}

	ctx := context.Background()
	eng, cleanup, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	outcome := eng.Match(ctx, &resume, &job)

	encoded, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func readJSONFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
