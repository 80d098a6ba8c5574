package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repolens-dev/repolens/internal/analyzer"
	"github.com/repolens-dev/repolens/internal/registry"
	"github.com/repolens-dev/repolens/internal/snapshot"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/files"
	"github.com/repolens-dev/repolens/pkg/shared/logger"
)

// RunOptionsAnalyze holds the arguments for the analyze command.
type RunOptionsAnalyze struct {
	Output       string
	RegistryPath string
}

var (
	AppConfig           *config.Config
	analyzeOptions      RunOptionsAnalyze
	exampleAnalyzeUsage = `  # Analyzing a fetched snapshot folder
  repolens analyze ~/.repolens/projects/github.com/juice-shop/juice-shop

  # Analyzing a local working copy and writing the result to a chosen file
  repolens analyze ./my-project -o result.json

  # Analyzing with extra detection patterns layered over the built-in registry
  repolens analyze ./my-project --registry ./patterns.yml`
)

var AnalyzeCmd = &cobra.Command{
	Use:                   "analyze [-o OUTPUT] [--registry PATH] PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAnalyzeUsage,
	Short:                 "Builds the architectural profile of a source tree",
	RunE:                  runAnalyzeCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runAnalyzeCommand executes the analyze command.
func runAnalyzeCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-analyze")

	if err := validateAnalyzeArgs(&analyzeOptions, args); err != nil {
		logger.Error("invalid analyze arguments", "error", err)
		return err
	}

	registryPath := analyzeOptions.RegistryPath
	if registryPath == "" {
		registryPath = AppConfig.Engine.RegistryPath
	}
	reg, err := registry.Load(registryPath)
	if err != nil {
		logger.Error("failed to load pattern registry", "error", err)
		return err
	}

	root, err := files.ExpandPath(args[0])
	if err != nil {
		return err
	}
	snap := snapshot.FromPath(root)

	result, err := analyzer.New(AppConfig.Engine, reg, logger).Run(cmd.Context(), snap)
	if err != nil {
		logger.Error("analyze command failed", "error", err)
		return err
	}

	outputPath := analyzeOptions.Output
	if outputPath == "" {
		if err := files.CreateFolderIfNotExists(config.GetResultsHome(AppConfig)); err != nil {
			return err
		}
		outputPath = filepath.Join(config.GetResultsHome(AppConfig), fmt.Sprintf("analysis-%s.json", snap.ID))
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write analysis result: %w", err)
	}

	logger.Info("analyze command completed successfully",
		"architecture", result.Architecture, "output", outputPath)
	return nil
}

func init() {
	AnalyzeCmd.Flags().StringVarP(&analyzeOptions.Output, "output", "o", "", "Path of the analysis result file (default: the results folder).")
	AnalyzeCmd.Flags().StringVar(&analyzeOptions.RegistryPath, "registry", "", "Path to a YAML file with extra detection patterns.")
	AnalyzeCmd.Flags().BoolP("help", "h", false, "Show help for the analyze command.")
}
