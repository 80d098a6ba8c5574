package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repolens-dev/repolens/internal/sarifreport"
	"github.com/repolens-dev/repolens/internal/security"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/logger"
)

// RunOptionsExport holds the arguments for the export command.
type RunOptionsExport struct {
	InputFile  string
	OutputFile string
}

var (
	AppConfig          *config.Config
	exportOptions      RunOptionsExport
	exampleExportUsage = `  # Converting a scan result to SARIF
  repolens export --input ~/.repolens/results/scan-42.json --output report.sarif

  # Letting the output name default to the input name with a .sarif suffix
  repolens export -i scan-42.json`
)

var ExportCmd = &cobra.Command{
	Use:                   "export --input/-i PATH [--output/-o PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleExportUsage,
	Short:                 "Exports a scan result as a SARIF 2.1.0 report",
	RunE:                  runExportCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runExportCommand executes the export command.
func runExportCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-export")

	if err := validateExportArgs(&exportOptions, args); err != nil {
		logger.Error("invalid export arguments", "error", err)
		return err
	}

	data, err := os.ReadFile(exportOptions.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read scan result %q: %w", exportOptions.InputFile, err)
	}
	var result security.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse scan result %q: %w", exportOptions.InputFile, err)
	}

	outputPath := exportOptions.OutputFile
	if outputPath == "" {
		outputPath = strings.TrimSuffix(exportOptions.InputFile, ".json") + ".sarif"
	}

	if err := sarifreport.WriteFile(&result, outputPath); err != nil {
		logger.Error("export command failed", "error", err)
		return err
	}

	logger.Info("export command completed successfully",
		"findings", result.Total, "output", outputPath)
	return nil
}

func init() {
	ExportCmd.Flags().StringVarP(&exportOptions.InputFile, "input", "i", "", "Path of the scan result JSON file.")
	ExportCmd.Flags().StringVarP(&exportOptions.OutputFile, "output", "o", "", "Path of the SARIF report (default: input path with a .sarif suffix).")
	ExportCmd.Flags().BoolP("help", "h", false, "Show help for the export command.")
}
