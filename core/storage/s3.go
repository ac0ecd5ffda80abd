package storage

import (
	"context"
	goerrors "errors"

	"studio-api/core/config"
	"studio-api/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectStore deletes key-addressed blobs. Absence of the key is a
// successful no-op.
type ObjectStore interface {
	DeleteObject(ctx context.Context, key string) error
}

type s3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(cfg config.StorageConfig) ObjectStore {
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("Object store initialized", "bucket", cfg.Bucket, "region", cfg.Region)
	return &s3Store{client: client, bucket: cfg.Bucket}
}

func (s *s3Store) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if goerrors.As(err, &notFound) {
			logger.Warn("Storage:DeleteObject:AlreadyGone", "key", key)
			return nil
		}
		return err
	}
	return nil
}
