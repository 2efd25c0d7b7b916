package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/config"
	"alfredoptarigan/profile-analyzer/internal/models"
	"alfredoptarigan/profile-analyzer/internal/server"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a profile against a job description",
	Long:  "Analyze a profile (plain text or PDF) against a job description text file and print the report as JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeProfileFile string
	analyzeJobFile     string
	analyzeOutputFile  string
	analyzeProvider    string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProfileFile, "profile", "p", "", "Path to the profile (.pdf or text)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to the job description text file")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Write the JSON report to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "Completion provider (openai or gemini), overrides LLM_PROVIDER")

	_ = analyzeCmd.MarkFlagRequired("profile")
	_ = analyzeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if analyzeProvider != "" {
		cfg.LLM.Provider = analyzeProvider
	}

	ctx := cmd.Context()

	deps, err := server.BuildDependencies(ctx, cfg, zap.NewNop(), nil)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	profileText, err := readProfile(ctx, deps, analyzeProfileFile)
	if err != nil {
		return err
	}
	jobDescription, err := os.ReadFile(analyzeJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	req := models.AnalysisRequest{
		ProfileText:    profileText,
		JobDescription: string(jobDescription),
	}
	if err := deps.Validator.Validate(req); err != nil {
		return err
	}

	result, err := deps.Gateway.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to analyze profile: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeOutput(cmd, analyzeOutputFile, append(jsonBytes, '\n'))
}

func readProfile(ctx context.Context, deps *server.Dependencies, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractFile(ctx, deps.PDFParser, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	return string(data), nil
}
