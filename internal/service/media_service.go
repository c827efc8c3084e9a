package service

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
	"github.com/rs/zerolog/log"

	"github.com/covercraft/catalog_api/internal/config"
	"github.com/covercraft/catalog_api/internal/utils"
)

// MediaService uploads variant images to S3 and returns their public URLs.
type MediaService struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewMediaService creates a new MediaService from config. Static credentials
// take precedence; otherwise the default AWS credential chain applies.
func NewMediaService(ctx context.Context, cfg *config.S3Config) (*MediaService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &MediaService{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// Upload stores the file under a collision-resistant key and returns its
// public URL. Keys follow "<namespace>/<unix-millis>_<filename>", matching
// the retrieval layout the dashboard expects.
func (s *MediaService) Upload(ctx context.Context, namespace, filename, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%d_%s", namespace, time.Now().UnixMilli(), sanitizeFilename(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("S3 upload failed")
		return "", fmt.Errorf("%w: %s", utils.ErrUpload, filename)
	}

	log.Info().Str("key", key).Int("size", len(data)).Msg("uploaded media object")
	return s.ObjectURL(key), nil
}

// ObjectURL returns the public retrieval URL for a stored key.
func (s *MediaService) ObjectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// sanitizeFilename strips path separators and whitespace so user-supplied
// names cannot escape the namespace prefix.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	name = replacer.Replace(name)
	if name == "" {
		name = "file"
	}
	return name
}
