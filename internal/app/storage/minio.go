package storage

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "audio-transcriber/internal/app/errors"
)

// MinioConfig holds the object storage connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// MinioStore keeps artifacts as objects in a MinIO / S3 bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioStore connects to the endpoint and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Store(err, "failed to create MinIO client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, apperrors.Store(err, "failed to check bucket existence")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, apperrors.Store(err, "failed to create bucket")
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *MinioStore) objectName(loc Location) string {
	if s.prefix == "" {
		return string(loc)
	}
	return path.Join(s.prefix, string(loc))
}

// Persist uploads data as the object for key.
func (s *MinioStore) Persist(ctx context.Context, key string, data []byte) (Location, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	loc := Location(key)
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(loc), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(key),
	})
	if err != nil {
		return "", apperrors.Store(err, "failed to upload %s", key)
	}
	return loc, nil
}

// Retrieve downloads the object at loc.
func (s *MinioStore) Retrieve(ctx context.Context, loc Location) ([]byte, error) {
	if !validKey(string(loc)) {
		return nil, apperrors.NotFound("artifact", string(loc))
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(loc), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError(err, loc)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapMinioError(err, loc)
	}
	return data, nil
}

// Delete removes the object at loc. S3 deletes of missing keys succeed.
func (s *MinioStore) Delete(ctx context.Context, loc Location) error {
	if !validKey(string(loc)) {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, s.objectName(loc), minio.RemoveObjectOptions{})
	if err != nil && !isMinioNotFound(err) {
		return apperrors.Store(err, "failed to delete %s", loc)
	}
	return nil
}

func mapMinioError(err error, loc Location) error {
	if isMinioNotFound(err) {
		return apperrors.NotFound("artifact", string(loc))
	}
	return apperrors.Store(err, "failed to download %s", loc)
}

func isMinioNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".vtt":
		return "text/vtt; charset=utf-8"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
