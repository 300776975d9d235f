package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures an S3Store.
type S3Options struct {
	Bucket string
	Prefix string
	Region string
	URLTTL time.Duration
}

// S3Store keeps uploads in a bucket and hands out presigned GET URLs so the
// image models can fetch private objects.
type S3Store struct {
	client    objectPutter
	presigner getPresigner
	bucket    string
	prefix    string
	ttl       time.Duration
}

// OpenS3Store loads AWS credentials from the default chain.
func OpenS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return newS3Store(client, s3.NewPresignClient(client), opts), nil
}

func newS3Store(client objectPutter, presigner getPresigner, opts S3Options) *S3Store {
	ttl := opts.URLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	prefix := strings.Trim(strings.TrimSpace(opts.Prefix), "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Store{
		client:    client,
		presigner: presigner,
		bucket:    strings.TrimSpace(opts.Bucket),
		prefix:    prefix,
		ttl:       ttl,
	}
}

// Upload implements Uploader.
func (s *S3Store) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	key := s.prefix + uuid.NewString() + extensionFor(contentType, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return req.URL, nil
}

var _ Uploader = (*S3Store)(nil)
