package core

import (
	"context"
	"fmt"

	"github.com/julien-sobczak/nimbus2md/internal/remote"
)

// NewRemote instantiates the remote configured in the settings.
func (s *Settings) NewRemote() (remote.Remote, error) {
	switch s.Remote.Type {
	case "fs":
		return remote.NewFSRemote(s.Remote.Dir)
	case "s3":
		return remote.NewS3RemoteWithCredentials(s.Remote.Endpoint, s.Remote.BucketName, s.Remote.AccessKey, s.Remote.SecretKey, s.Remote.Secure)
	}
	return nil, fmt.Errorf("unsupported remote type %q", s.Remote.Type)
}

// Publish uploads a directory of exported documents to the configured remote.
func Publish(ctx context.Context, settings *Settings, logger *Logger, dir string) (int, error) {
	r, err := settings.NewRemote()
	if err != nil {
		return 0, err
	}
	logger.Infof("Publishing %s to %s", dir, r.Name())
	count, err := remote.Publish(ctx, dir, r, settings.Parallel, func(key string) {
		logger.Debugf("Uploaded %s", key)
	})
	if err != nil {
		return 0, err
	}
	logger.Infof("Published %d files", count)
	return count, nil
}
