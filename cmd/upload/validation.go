package upload

import (
	"fmt"

	"github.com/repolens-dev/repolens/pkg/shared/files"
)

// validateUploadArgs validates the arguments provided to the upload command.
func validateUploadArgs(options *RunOptionsUpload, args []string) error {
	if options.Bucket == "" {
		return fmt.Errorf("the 'bucket' flag must be specified")
	}

	for _, filePath := range args {
		if err := files.ValidatePath(filePath); err != nil {
			return fmt.Errorf("result file is not usable: %w", err)
		}
	}
	return nil
}
