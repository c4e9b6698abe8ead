package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sahilmate/multi-agent-form-processing-system/config"
)

// UploadArchiver keeps a copy of a citizen upload alongside the forwarded request.
type UploadArchiver interface {
	Archive(ctx context.Context, requestID, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type ArchiveService struct {
	client *minio.Client
	bucket string
	config *config.ArchiveConfig
	now    func() time.Time
}

func NewArchiveService(cfg *config.ArchiveConfig) (*ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
		now:    time.Now,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.config.Region})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Archive stores the upload and returns its object URL
func (s *ArchiveService) Archive(ctx context.Context, requestID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := s.ObjectName(requestID, filename)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"request-id":        requestID,
			"original-filename": filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}

	return s.ObjectURL(objectName), nil
}

// ObjectName builds <yyyy>/<mm>/<dd>/<request-id>/<filename>. Directory parts
// of filename are dropped and a missing request id is replaced with a fresh one.
func (s *ArchiveService) ObjectName(requestID, filename string) string {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return path.Join(s.now().UTC().Format("2006/01/02"), requestID, name)
}

// ObjectURL returns the object's address on the archive endpoint
func (s *ArchiveService) ObjectURL(objectName string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, objectName)
}
