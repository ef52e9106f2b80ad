package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Host stores uploaded images and hands back their public URL.
type Host interface {
	Upload(ctx context.Context, folder string, data []byte, contentType string) (string, error)
	Destroy(ctx context.Context, ref string) error
	// Owns reports whether ref points at an object this host created.
	Owns(ref string) bool
}

// ObjectAPI is the subset of the S3 client used by S3Host.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures an S3 compatible media host.
type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// S3Host keeps images in an S3 compatible bucket.
type S3Host struct {
	client    ObjectAPI
	bucket    string
	publicURL string
}

// NewS3Client builds an S3 client for opts. A custom endpoint switches to path
// style addressing so MinIO style servers work.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Host wraps client. Objects are published under publicURL.
func NewS3Host(client ObjectAPI, bucket, publicURL string) *S3Host {
	return &S3Host{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (h *S3Host) Upload(ctx context.Context, folder string, data []byte, contentType string) (string, error) {
	key := path.Join(folder, uuid.NewString()+Extension(contentType))
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return h.publicURL + "/" + key, nil
}

func (h *S3Host) Destroy(ctx context.Context, ref string) error {
	if !h.Owns(ref) {
		return nil
	}
	key := strings.TrimPrefix(ref, h.publicURL+"/")
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (h *S3Host) Owns(ref string) bool {
	return h.publicURL != "" && strings.HasPrefix(ref, h.publicURL+"/")
}
