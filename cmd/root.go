package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/repolens-dev/repolens/cmd/analyze"
	"github.com/repolens-dev/repolens/cmd/export"
	"github.com/repolens-dev/repolens/cmd/fetch"
	"github.com/repolens-dev/repolens/cmd/scan"
	"github.com/repolens-dev/repolens/cmd/upload"
	"github.com/repolens-dev/repolens/cmd/version"
	"github.com/repolens-dev/repolens/pkg/shared/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "repolens [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "RepoLens analyzes repository architecture and scans for leaked credentials.",
		Long: `RepoLens ingests a source tree without executing it and produces an
architectural profile (languages, frameworks, components, entry points, API
endpoints, import graph) together with a security findings report that
supports remove, mask and ignore remediation.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(fetch.FetchCmd)
	rootCmd.AddCommand(analyze.AnalyzeCmd)
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(export.ExportCmd)
	rootCmd.AddCommand(upload.UploadCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	// .env is optional, it only feeds REPOLENS_* variables into the process.
	_ = godotenv.Load()

	var err error
	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("failed to initialize config file - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	version.Init(AppConfig)
	fetch.Init(AppConfig)
	analyze.Init(AppConfig)
	scan.Init(AppConfig)
	export.Init(AppConfig)
	upload.Init(AppConfig)
}
