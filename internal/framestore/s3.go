package framestore

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds configuration for archiving frames to an S3-compatible bucket
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string

	// PublicBaseURL prefixes object keys to form the archived URL
	PublicBaseURL string

	// Prefix is prepended to every object key
	Prefix string

	Clock clock.Clock
}

// S3 archives frames to a bucket so the frame stays reachable after the round
type S3 struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	prefix  string
	clock   clock.Clock
}

// NewS3 creates an S3 frame store
func NewS3(ctx context.Context, cfg *S3Config) (*S3, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("bucket cannot be empty")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" && cfg.Endpoint != "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return newS3(client, cfg.Bucket, baseURL, cfg.Prefix, cfg.Clock), nil
}

func newS3(client putObjectAPI, bucket, baseURL, prefix string, clk clock.Clock) *S3 {
	if clk == nil {
		clk = clock.New()
	}
	if prefix == "" {
		prefix = "frames"
	}
	return &S3{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
		clock:   clk,
	}
}

// Capture fingerprints the local frame and uploads it under <prefix>/<round>/<file>
func (s *S3) Capture(ctx context.Context, roundID, path string) (models.FrameRef, error) {
	if err := ctx.Err(); err != nil {
		return models.FrameRef{}, err
	}
	digest, err := fingerprint(path)
	if err != nil {
		return models.FrameRef{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return models.FrameRef{}, fmt.Errorf("%w: %w", ErrFrameUnavailable, err)
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s/%s", s.prefix, roundID, filepath.Base(path))
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
		Metadata: map[string]string{
			"sha256":   digest,
			"round-id": roundID,
		},
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return models.FrameRef{}, fmt.Errorf("failed to upload frame: %w", err)
	}

	ref := models.FrameRef{
		Path:       path,
		SHA256:     digest,
		CapturedAt: s.clock.Now(),
	}
	if s.baseURL != "" {
		ref.URL = s.baseURL + "/" + key
	}
	return ref, nil
}
