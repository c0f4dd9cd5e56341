package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

// DefaultBackupObject is the object key used when none is given.
const DefaultBackupObject = "spillway/keys.sealed.json"

// BackupConfig points at an S3-compatible bucket (AWS, MinIO, ...).
type BackupConfig struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// ObjectStore is the subset of *s3.Client used for backups.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Client builds an S3 client for cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
// A custom endpoint switches to path-style addressing.
func NewS3Client(ctx context.Context, cfg BackupConfig) (*s3.Client, error) {
	if cfg.Bucket == "" {
		return nil, ErrBackupNotConfigured
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Backup stores passphrase-sealed key exports in a bucket.
type S3Backup struct {
	store  ObjectStore
	bucket string
	keys   KeyService
	log    logging.Logger
}

func NewS3Backup(store ObjectStore, bucket string, keys KeyService, log logging.Logger) *S3Backup {
	if log == nil {
		log = logging.NewNop()
	}
	return &S3Backup{store: store, bucket: bucket, keys: keys, log: log}
}

// Backup seals every local key under passphrase and uploads it to object.
func (b *S3Backup) Backup(ctx context.Context, object string, passphrase []byte) error {
	if b.store == nil || b.bucket == "" {
		return ErrBackupNotConfigured
	}
	object = objectKey(object)

	sealed, err := b.keys.ExportSealed(ctx, passphrase)
	if err != nil {
		return fmt.Errorf("seal keys: %w", err)
	}

	_, err = b.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(object),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup[%s]: %w", object, err)
	}

	b.log.Info(ctx, "keys backed up", "bucket", b.bucket, "object", object, "bytes", len(sealed))
	return nil
}

// Restore downloads object, opens it with passphrase and imports the keys.
func (b *S3Backup) Restore(ctx context.Context, object string, passphrase []byte, merge bool) (int, error) {
	if b.store == nil || b.bucket == "" {
		return 0, ErrBackupNotConfigured
	}
	object = objectKey(object)

	out, err := b.store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to download backup[%s]: %w", object, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup[%s]: %w", object, err)
	}

	n, err := b.keys.ImportSealed(ctx, data, passphrase, merge)
	if err != nil {
		return 0, err
	}
	b.log.Info(ctx, "keys restored", "bucket", b.bucket, "object", object, "count", n)
	return n, nil
}

func objectKey(object string) string {
	object = strings.TrimLeft(strings.TrimSpace(object), "/")
	if object == "" {
		return DefaultBackupObject
	}
	return object
}
