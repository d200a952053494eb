package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/inkflow/inkflow/pkg/config"
)

// Storage uploads cover images and returns their public URLs
type Storage interface {
	UploadCover(ctx context.Context, fileName string, file io.Reader, size int64) (string, error)
}

// MinIOClient implements Storage against a MinIO/S3 bucket
type MinIOClient struct {
	client *minio.Client
	cfg    config.MinIO
}

// NewMinIOClient connects to the object store and ensures the bucket exists
func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOClient{client: client, cfg: cfg}, nil
}

// UploadCover stores an image under covers/<year>/<month>/<uuid><ext> and
// returns the public URL
func (m *MinIOClient) UploadCover(ctx context.Context, fileName string, file io.Reader, size int64) (string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	objectName := fmt.Sprintf("covers/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), fileExt)

	_, err := m.client.PutObject(ctx, m.cfg.Bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(m.cfg.PublicURL, "/"), m.cfg.Bucket, objectName), nil
}
