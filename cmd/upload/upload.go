package upload

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/spf13/cobra"

	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/logger"
)

// RunOptionsUpload holds the arguments for the upload command.
type RunOptionsUpload struct {
	Bucket string
	Region string
	Prefix string
}

var (
	AppConfig          *config.Config
	uploadOptions      RunOptionsUpload
	exampleUploadUsage = `  # Uploading an analysis result and a SARIF report to S3
  repolens upload --bucket my-results-bucket result.json report.sarif

  # Uploading below a key prefix in a specific region
  repolens upload --bucket my-results-bucket --region eu-west-2 --prefix juice-shop/ scan-42.json`
)

var UploadCmd = &cobra.Command{
	Use:                   "upload --bucket BUCKET [--region REGION] [--prefix PREFIX] FILES...",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleUploadUsage,
	Short:                 "Uploads result files to an S3 bucket",
	RunE:                  runUploadCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runUploadCommand executes the upload command.
func runUploadCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-upload")

	if err := validateUploadArgs(&uploadOptions, args); err != nil {
		logger.Error("invalid upload arguments", "error", err)
		return err
	}

	awsConfig := aws.Config{}
	if uploadOptions.Region != "" {
		awsConfig.Region = aws.String(uploadOptions.Region)
	}
	sess := session.Must(session.NewSession(&awsConfig))
	uploader := s3manager.NewUploader(sess)

	for _, filePath := range args {
		key := path.Join(uploadOptions.Prefix, filepath.Base(filePath))

		f, err := os.Open(filePath)
		if err != nil {
			logger.Error("failed to open result file", "file", filePath, "error", err)
			return fmt.Errorf("failed to open file %q: %w", filePath, err)
		}

		result, err := uploader.Upload(&s3manager.UploadInput{
			Bucket: aws.String(uploadOptions.Bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		f.Close()
		if err != nil {
			logger.Error("failed to upload result file", "file", filePath, "error", err)
			return fmt.Errorf("failed to upload file %q: %w", filePath, err)
		}

		logger.Info("uploaded result file", "bucket", uploadOptions.Bucket, "key", key, "location", result.Location)
	}

	logger.Info("upload command completed successfully", "files", len(args))
	return nil
}

func init() {
	UploadCmd.Flags().StringVarP(&uploadOptions.Bucket, "bucket", "b", "", "Name of the target S3 bucket.")
	UploadCmd.Flags().StringVar(&uploadOptions.Region, "region", "", "AWS region of the bucket (default: from the AWS environment).")
	UploadCmd.Flags().StringVar(&uploadOptions.Prefix, "prefix", "", "Key prefix to upload below.")
	UploadCmd.Flags().BoolP("help", "h", false, "Show help for the upload command.")
}
