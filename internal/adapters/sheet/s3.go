package sheet

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Option applies a configuration option to the S3Source.
type S3Option func(*S3Source)

// WithRegion sets the AWS region. Defaults to us-east-1 when neither this
// nor the environment provides one.
func WithRegion(region string) S3Option {
	return func(s *S3Source) {
		if region != "" {
			s.region = region
		}
	}
}

// WithObjectGetter replaces the S3 client.
func WithObjectGetter(g ObjectGetter) S3Option {
	return func(s *S3Source) {
		if g != nil {
			s.client = g
		}
	}
}

// S3Source reads the export from an S3 object.
type S3Source struct {
	bucket string
	key    string
	region string
	client ObjectGetter
}

// NewS3Source creates a source for bucket/key. Without WithObjectGetter the
// client is built from the default AWS credential chain.
func NewS3Source(ctx context.Context, bucket, key string, opts ...S3Option) (*S3Source, error) {
	s := &S3Source{bucket: bucket, key: key}
	for _, opt := range opts {
		opt(s)
	}
	if s.client != nil {
		return s, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if s.region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(s.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	s.client = s3.NewFromConfig(cfg)
	return s, nil
}

// Name implements Source.
func (s *S3Source) Name() string { return "s3" }

// Fetch downloads the object body.
func (s *S3Source) Fetch(ctx context.Context) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3://%s/%s: %w", ErrFetch, s.bucket, s.key, err)
	}
	defer func() { _ = out.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(out.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read object: %w", ErrFetch, err)
	}
	return string(b), nil
}
