package fetch

import (
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/repolens-dev/repolens/pkg/shared/files"
)

const (
	AuthTypeHTTP     = "http"
	AuthTypeSSHKey   = "ssh-key"
	AuthTypeSSHAgent = "ssh-agent"
)

// validateFetchArgs validates the arguments provided to the fetch command.
func validateFetchArgs(options *RunOptionsFetch, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	if options.AuthType != "" && !isKnownAuthType(options.AuthType) {
		return fmt.Errorf("unknown auth-type: %v", options.AuthType)
	}

	if options.AuthType == AuthTypeSSHKey {
		if options.SSHKey == "" {
			return fmt.Errorf("you must specify ssh-key with auth-type 'ssh-key'")
		}
		return validateSSHKey(options.SSHKey)
	}

	if options.AuthType == AuthTypeHTTP {
		if options.Username == "" || options.Token == "" {
			return fmt.Errorf("username and token are required with auth-type 'http'")
		}
	}
	return nil
}

func isKnownAuthType(authType string) bool {
	for _, known := range []string{AuthTypeHTTP, AuthTypeSSHKey, AuthTypeSSHAgent} {
		if authType == known {
			return true
		}
	}
	return false
}

func validateSSHKey(keyPath string) error {
	expandedPath, err := files.ExpandPath(keyPath)
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", keyPath, err)
	}
	if err := files.ValidatePath(expandedPath); err != nil {
		return fmt.Errorf("failed to validate path %q: %w", expandedPath, err)
	}

	keyData, err := os.ReadFile(expandedPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file: %w", err)
	}

	if _, err = ssh.ParsePrivateKey(keyData); err != nil {
		if _, ok := err.(*ssh.PassphraseMissingError); !ok {
			return fmt.Errorf("invalid SSH key format: %w", err)
		}
	}
	return nil
}
