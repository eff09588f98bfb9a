// Package archive sends invoice documents to S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/config"
	"github.com/dmitrijs2005/facturas/internal/logging"
	"github.com/google/uuid"
)

// ContentType is set on every uploaded document.
const ContentType = "application/xml"

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// seams for tests
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newObjectPutter       = func(c *s3.Client) objectPutter { return c }
)

type Service struct {
	config *config.Config
	logger logging.Logger
	now    func() time.Time
}

func NewService(cfg *config.Config, logger logging.Logger) *Service {
	return &Service{config: cfg, logger: logger, now: time.Now}
}

// StorageKey is facturas/<yyyy>/<mm>/<dd>/<code>-<uuid>.xml for the UTC day of d.
func StorageKey(d time.Time, code string) string {
	d = d.UTC()
	code = strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(code))
	if code == "" {
		code = "factura"
	}
	return fmt.Sprintf("facturas/%04d/%02d/%02d/%s-%v.xml", d.Year(), int(d.Month()), d.Day(), code, uuid.New())
}

func (s *Service) getClient(ctx context.Context) (objectPutter, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
		// MinIO and friends serve buckets by path
		o.UsePathStyle = true
	})

	return newObjectPutter(client), nil
}

// Upload stores document under a fresh key and returns the key.
func (s *Service) Upload(ctx context.Context, code string, document []byte) (string, error) {
	if s.config.S3Bucket == "" {
		return "", fmt.Errorf("%w: s3 bucket is empty", common.ErrInvalidConfig)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 config: %w", err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(s.now(), code)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(document),
		ContentLength: aws.Int64(int64(len(document))),
		ContentType:   aws.String(ContentType),
	})
	if err != nil {
		s.logger.Error(ctx, "upload failed", "bucket", bucket, "key", key, "error", err)
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Info(ctx, "invoice uploaded", "bucket", bucket, "key", key)
	return key, nil
}
