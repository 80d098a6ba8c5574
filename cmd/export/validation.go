package export

import (
	"fmt"

	"github.com/repolens-dev/repolens/pkg/shared/files"
)

// validateExportArgs validates the arguments provided to the export command.
func validateExportArgs(options *RunOptionsExport, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("invalid argument(s) received, the export command takes no positional arguments")
	}
	if options.InputFile == "" {
		return fmt.Errorf("the 'input' flag must be specified")
	}

	expanded, err := files.ExpandPath(options.InputFile)
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", options.InputFile, err)
	}
	if err := files.ValidatePath(expanded); err != nil {
		return fmt.Errorf("input file is not usable: %w", err)
	}
	options.InputFile = expanded
	return nil
}
