package analyze

import (
	"fmt"

	"github.com/repolens-dev/repolens/pkg/shared/files"
)

// validateAnalyzeArgs validates the arguments provided to the analyze command.
func validateAnalyzeArgs(options *RunOptionsAnalyze, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	root, err := files.ExpandPath(args[0])
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", args[0], err)
	}
	if err := files.ValidateDirectory(root); err != nil {
		return fmt.Errorf("analysis root is not usable: %w", err)
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
