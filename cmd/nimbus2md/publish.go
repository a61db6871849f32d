package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/julien-sobczak/nimbus2md/internal/core"
)

var remoteLocation string
var s3Endpoint string
var s3AccessKey string
var s3SecretKey string
var s3Secure bool

func init() {
	publishCmd.Flags().StringVarP(&remoteLocation, "remote", "r", "", "Destination (fs:<dir> or s3://<bucket>)")
	publishCmd.Flags().StringVarP(&s3Endpoint, "s3-endpoint", "", "", "S3 endpoint (host:port)")
	publishCmd.Flags().StringVarP(&s3AccessKey, "s3-access-key", "", "", "S3 access key")
	publishCmd.Flags().StringVarP(&s3SecretKey, "s3-secret-key", "", "", "S3 secret key")
	publishCmd.Flags().BoolVarP(&s3Secure, "s3-secure", "", false, "Use HTTPS to reach the S3 endpoint")
	rootCmd.AddCommand(publishCmd)
}

var publishCmd = &cobra.Command{
	Use:   "publish <export_root>",
	Short: "Publish converted documents",
	Long:  `Upload every file of an export root to a remote, using the relative paths as keys.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteLocation != "" {
			if err := applyRemote(settings, remoteLocation); err != nil {
				return err
			}
		}
		if err := settings.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		count, err := core.Publish(ctx, settings, logger, args[0])
		if err != nil {
			return err
		}
		if !silent {
			fmt.Fprintf(cmd.OutOrStdout(), "%d files published\n", count)
		}
		return nil
	},
}

// applyRemote configures the remote from a location like fs:<dir> or s3://<bucket>.
// S3 flags complete the values of the settings file.
func applyRemote(settings *core.Settings, location string) error {
	switch {
	case strings.HasPrefix(location, "fs:"):
		settings.ConfigureFSRemote(strings.TrimPrefix(location, "fs:"))
	case strings.HasPrefix(location, "s3://"):
		remote := settings.Remote
		endpoint := remote.Endpoint
		if s3Endpoint != "" {
			endpoint = s3Endpoint
		}
		accessKey := remote.AccessKey
		if s3AccessKey != "" {
			accessKey = s3AccessKey
		}
		secretKey := remote.SecretKey
		if s3SecretKey != "" {
			secretKey = s3SecretKey
		}
		bucket := strings.TrimSuffix(strings.TrimPrefix(location, "s3://"), "/")
		if bucket == "" {
			return fmt.Errorf("missing bucket in %q", location)
		}
		settings.ConfigureS3Remote(endpoint, bucket, accessKey, secretKey, s3Secure || remote.Secure)
	default:
		return fmt.Errorf("unsupported remote %q (expected fs:<dir> or s3://<bucket>)", location)
	}
	return nil
}
