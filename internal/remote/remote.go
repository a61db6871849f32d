package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/julien-sobczak/nimbus2md/pkg/filesystem"
)

var (
	ErrObjectNotExist = errors.New("object does not exist")
)

// Remote stores exported documents under slash-separated keys.
//
// A remote is free to save files in any format as long as it can retrieve
// the same content when querying using the same key.
type Remote interface {
	Name() string
	GetObject(key string) ([]byte, error)
	PutObject(key string, content []byte) error
	DeleteObject(key string) error
}

/* FS */

type FSRemote struct {
	path string
}

func NewFSRemote(dirpath string) (*FSRemote, error) {
	stat, err := os.Stat(dirpath)
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dirpath)
	}

	return &FSRemote{
		path: dirpath,
	}, nil
}

func (r *FSRemote) Name() string {
	return "fs:" + r.path
}

func (r *FSRemote) GetObject(key string) ([]byte, error) {
	path := filepath.Join(r.path, filepath.FromSlash(key))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotExist
	}
	return data, err
}

func (r *FSRemote) PutObject(key string, data []byte) error {
	filePath := filepath.Join(r.path, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

func (r *FSRemote) DeleteObject(key string) error {
	path := filepath.Join(r.path, filepath.FromSlash(key))
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrObjectNotExist
	}
	return os.Remove(path)
}

/* S3 */

type S3Remote struct {
	endpoint   string
	bucketName string

	minioClient *minio.Client
}

func NewS3RemoteWithCredentials(endpoint string, bucketName string, accessKey, secretKey string, secure bool) (*S3Remote, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	return &S3Remote{
		endpoint:    endpoint,
		bucketName:  bucketName,
		minioClient: minioClient,
	}, nil
}

func (r *S3Remote) Name() string {
	return fmt.Sprintf("s3:%s/%s", r.endpoint, r.bucketName)
}

func (r *S3Remote) GetObject(key string) ([]byte, error) {
	object, err := r.minioClient.GetObject(context.Background(), r.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()
	stat, err := object.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotExist
		}
		return nil, err
	}
	if stat.Size == 0 {
		return nil, ErrObjectNotExist
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(object); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *S3Remote) PutObject(key string, data []byte) error {
	_, err := r.minioClient.PutObject(context.Background(), r.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

func (r *S3Remote) DeleteObject(key string) error {
	_, err := r.GetObject(key)
	if err != nil {
		return err
	}
	return r.minioClient.RemoveObject(context.Background(), r.bucketName, key, minio.RemoveObjectOptions{})
}

/* Publication */

// Publish uploads every file under root using its slash-separated relative path as key.
// The function fn, when not nil, is called after each upload, possibly from several goroutines.
func Publish(ctx context.Context, root string, r Remote, parallel int, fn func(key string)) (int, error) {
	keys, err := filesystem.ListFiles(root)
	if err != nil {
		return 0, err
	}

	if parallel < 1 {
		parallel = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
			if err != nil {
				return err
			}
			if err := r.PutObject(key, data); err != nil {
				return fmt.Errorf("unable to upload %s to %s: %w", key, r.Name(), err)
			}
			if fn != nil {
				fn(key)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
