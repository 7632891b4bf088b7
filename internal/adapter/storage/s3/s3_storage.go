package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Storage implements domain.MediaStorage over a MinIO/S3 bucket.
type Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewStorage connects to the S3 endpoint and ensures the bucket exists.
func NewStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*Storage, error) {
	log.Info("Initializing S3 storage",
		zap.String("endpoint", endpoint), zap.String("bucket", bucket), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: (make: %v / exists_check: %v)", bucket, err, existsErr)
		}
	}

	return &Storage{
		client: client,
		bucket: bucket,
		logger: log.Named("S3Storage"),
	}, nil
}

// Store uploads the file under a generated object key that keeps the
// original extension, and returns the reference to the stored copy.
func (s *Storage) Store(ctx context.Context, filename string, data []byte) (domain.ImageRef, error) {
	ext := filepath.Ext(filename)
	objectKey := fmt.Sprintf("listings/%s%s", uuid.New().String(), ext)

	s.logger.Debug("Uploading listing image",
		zap.String("bucket", s.bucket),
		zap.String("object_key", objectKey),
		zap.String("original_filename", filename),
		zap.Int("size_bytes", len(data)))

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("PutObject failed",
			zap.String("bucket", s.bucket), zap.String("object_key", objectKey), zap.Error(err))
		return domain.ImageRef{}, fmt.Errorf("upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, info.Key)
	s.logger.Info("Listing image uploaded",
		zap.String("object_key", info.Key), zap.String("url", url))

	return domain.ImageRef{Filename: objectKey, URL: url}, nil
}
