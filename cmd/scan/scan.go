package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repolens-dev/repolens/internal/registry"
	"github.com/repolens-dev/repolens/internal/security"
	"github.com/repolens-dev/repolens/internal/snapshot"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/files"
	"github.com/repolens-dev/repolens/pkg/shared/logger"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Apply        string
	Findings     []string
	Output       string
	RegistryPath string
}

var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scanning a source tree for leaked credentials
  repolens scan ./my-project

  # Masking every detected finding in place
  repolens scan ./my-project --apply mask

  # Removing two specific findings selected by fingerprint
  repolens scan ./my-project --apply auto_remove --findings 4f2c...,9a1b...

  # Marking a finding as ignored so rescans keep it out of the detected set
  repolens scan ./my-project --apply ignore --findings 4f2c...`
)

var ScanCmd = &cobra.Command{
	Use:                   "scan [--apply auto_remove|mask|ignore] [--findings FP1,FP2] [-o OUTPUT] PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scans a source tree for credential-like content and applies remediation",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return err
	}

	registryPath := scanOptions.RegistryPath
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

	if err := files.CreateFolderIfNotExists(config.GetResultsHome(AppConfig)); err != nil {
		return err
	}
	ignorePath := security.IgnoreStorePath(config.GetResultsHome(AppConfig), root)
	scanner, err := security.NewScanner(AppConfig.Engine, reg, logger, snap, ignorePath)
	if err != nil {
		logger.Error("failed to create scanner", "error", err)
		return err
	}

	var result *security.ScanResult
	if scanOptions.Apply != "" {
		action, err := security.ParseAction(scanOptions.Apply)
		if err != nil {
			return err
		}
		result, err = scanner.Apply(cmd.Context(), action, scanOptions.Findings)
		if err != nil {
			logger.Error("scan command failed", "error", err)
			return err
		}
	} else {
		result, err = scanner.Scan(cmd.Context())
		if err != nil {
			logger.Error("scan command failed", "error", err)
			return err
		}
	}

	outputPath := scanOptions.Output
	if outputPath == "" {
		outputPath = filepath.Join(config.GetResultsHome(AppConfig), fmt.Sprintf("scan-%s.json", snap.ID))
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scan result: %w", err)
	}

	logger.Info("scan command completed successfully",
		"findings", result.Total, "output", outputPath)
	return nil
}

func init() {
	ScanCmd.Flags().StringVar(&scanOptions.Apply, "apply", "", "Remediation action to apply (auto_remove, mask, ignore).")
	ScanCmd.Flags().StringSliceVar(&scanOptions.Findings, "findings", nil, "Comma-separated fingerprints or 1-based report positions the action applies to (default: all detected).")
	ScanCmd.Flags().StringVarP(&scanOptions.Output, "output", "o", "", "Path of the scan result file (default: the results folder).")
	ScanCmd.Flags().StringVar(&scanOptions.RegistryPath, "registry", "", "Path to a YAML file with extra detection patterns.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
