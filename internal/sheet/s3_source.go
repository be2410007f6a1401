package sheet

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the part of the S3 client used by s3Source.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Source implements Source for workbooks stored in AWS S3.
type s3Source struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Source creates a new S3-based spreadsheet source.
func NewS3Source(ctx context.Context, bucket, region string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "s3-source").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 source initialised")

	return newS3Source(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Source(client objectGetter, bucket string, logger zerolog.Logger) *s3Source {
	return &s3Source{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Open fetches the workbook stored under key.
// The key parameter should be the full S3 key (including any prefix).
func (s *s3Source) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("loading spreadsheet from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	return result.Body, nil
}

// fallbackSource tries S3 first, then falls back to the local file system.
type fallbackSource struct {
	s3Source   Source
	fileSource Source
	s3Prefix   string
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackSource creates a source that tries S3 first, then the local file system.
// If s3Source is nil, it will only use the file source.
func NewFallbackSource(s3Source, fileSource Source, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Source {
	return &fallbackSource{
		s3Source:   s3Source,
		fileSource: fileSource,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-source").Logger(),
	}
}

// Open attempts S3 first with the prefix prepended to key, then opens key
// from the local file system.
func (s *fallbackSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.s3Enabled && s.s3Source != nil {
		s3Key := s.s3Prefix + key

		rc, err := s.s3Source.Open(ctx, s3Key)
		if err == nil {
			s.logger.Debug().Str("s3_key", s3Key).Msg("spreadsheet loaded from S3")
			return rc, nil
		}

		s.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to load from S3, falling back to local file system")
	} else {
		s.logger.Debug().
			Bool("s3_enabled", s.s3Enabled).
			Bool("has_s3_source", s.s3Source != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return s.fileSource.Open(ctx, key)
}
