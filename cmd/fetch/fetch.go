package fetch

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repolens-dev/repolens/internal/fetcher"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/files"
	"github.com/repolens-dev/repolens/pkg/shared/logger"
)

// RunOptionsFetch holds the arguments for the fetch command.
type RunOptionsFetch struct {
	AuthType       string
	SSHKey         string
	SSHKeyPassword string
	Username       string
	Token          string
	Branch         string
}

var (
	AppConfig         *config.Config
	fetchOptions      RunOptionsFetch
	exampleFetchUsage = `  # Fetching a public repository over HTTPS
  repolens fetch https://github.com/juice-shop/juice-shop

  # Fetching a specific branch with SSH agent authentication
  repolens fetch --auth-type ssh-agent -b develop git@github.com:juice-shop/juice-shop.git

  # Fetching with an SSH key
  repolens fetch --auth-type ssh-key --ssh-key ~/.ssh/id_ed25519 git@github.com:juice-shop/juice-shop.git

  # Extracting a local source archive
  repolens fetch ./project-export.tar.gz

  # Downloading and extracting a remote archive
  repolens fetch https://example.com/exports/project.zip`
)

var FetchCmd = &cobra.Command{
	Use:                   "fetch [--auth-type/-a AUTH_TYPE] [--ssh-key/-k PATH] [-b BRANCH] URL|ARCHIVE|DIR",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleFetchUsage,
	Short:                 "Fetches a repository, archive or local folder into an analyzable snapshot",
	RunE:                  runFetchCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runFetchCommand executes the fetch command.
func runFetchCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-fetch")

	if err := validateFetchArgs(&fetchOptions, args); err != nil {
		logger.Error("invalid fetch arguments", "error", err)
		return err
	}

	for _, folder := range []string{config.GetProjectsHome(AppConfig), config.GetTempHome(AppConfig)} {
		if err := files.CreateFolderIfNotExists(folder); err != nil {
			logger.Error("failed to prepare home folder", "folder", folder, "error", err)
			return err
		}
	}

	f := fetcher.New(AppConfig, logger)
	snap, err := f.Fetch(cmd.Context(), args[0], fetcher.Options{
		Branch:         fetchOptions.Branch,
		AuthType:       fetchOptions.AuthType,
		SSHKeyPath:     fetchOptions.SSHKey,
		SSHKeyPassword: fetchOptions.SSHKeyPassword,
		Username:       fetchOptions.Username,
		Token:          fetchOptions.Token,
	})
	if err != nil {
		logger.Error("fetch command failed", "error", err)
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	logger.Info("fetch command completed successfully", "snapshot", snap.ID, "root", snap.Root)
	return nil
}

func init() {
	FetchCmd.Flags().StringVarP(&fetchOptions.AuthType, "auth-type", "a", "", "Type of authentication (http, ssh-agent, ssh-key).")
	FetchCmd.Flags().StringVarP(&fetchOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key.")
	FetchCmd.Flags().StringVar(&fetchOptions.SSHKeyPassword, "ssh-key-password", "", "Passphrase of the SSH key.")
	FetchCmd.Flags().StringVarP(&fetchOptions.Username, "username", "u", "", "Username for HTTP authentication.")
	FetchCmd.Flags().StringVarP(&fetchOptions.Token, "token", "t", "", "Token for HTTP authentication and platform API calls.")
	FetchCmd.Flags().StringVarP(&fetchOptions.Branch, "branch", "b", "", "Specific branch to fetch (default: the repository's default branch).")
	FetchCmd.Flags().BoolP("help", "h", false, "Show help for the fetch command.")
}
