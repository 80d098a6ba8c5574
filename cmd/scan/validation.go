package scan

import (
	"fmt"

	"github.com/repolens-dev/repolens/internal/security"
	"github.com/repolens-dev/repolens/pkg/shared/files"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	root, err := files.ExpandPath(args[0])
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", args[0], err)
	}
	if err := files.ValidateDirectory(root); err != nil {
		return fmt.Errorf("scan root is not usable: %w", err)
	}

	if options.Apply != "" {
		if _, err := security.ParseAction(options.Apply); err != nil {
			return err
		}
	}
	if len(options.Findings) > 0 && options.Apply == "" {
		return fmt.Errorf("the 'findings' flag requires the 'apply' flag")
	}

	if options.RegistryPath != "" {
		expanded, err := files.ExpandPath(options.RegistryPath)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", options.RegistryPath, err)
		}
		if err := files.ValidatePath(expanded); err != nil {
			return fmt.Errorf("registry override is not usable: %w", err)
		}
		options.RegistryPath = expanded
	}
	return nil
}
