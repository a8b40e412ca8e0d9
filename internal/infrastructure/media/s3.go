// Package media stores user images on an S3-compatible object store.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/videohub/account-service/internal/api/metrics"
	"github.com/videohub/account-service/internal/core/domain"
)

const keyPrefix = "images/"

var errForeignURL = errors.New("url does not belong to the media bucket")

// Config selects the bucket and, for MinIO or other S3-compatible hosts, the
// endpoint and static credentials.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the base of the URLs handed to clients. Defaults to
	// <Endpoint>/<Bucket>.
	PublicURL string
}

// ObjectAPI is the subset of the S3 client used by Uploader.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Uploader implements ports.MediaUploader.
type Uploader struct {
	api       ObjectAPI
	bucket    string
	publicURL string
}

// NewS3Client builds an S3 client from cfg. Static credentials and a custom
// endpoint are used when set, otherwise the default AWS chain applies.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewUploader(api ObjectAPI, cfg Config) *Uploader {
	public := cfg.PublicURL
	if public == "" {
		if cfg.Endpoint != "" {
			public = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &Uploader{api: api, bucket: cfg.Bucket, publicURL: strings.TrimRight(public, "/")}
}

// Upload stores the file at path under a random key. The content type is
// sniffed from the file contents. The local file is left in place.
func (u *Uploader) Upload(ctx context.Context, path string) (*domain.Media, error) {
	start := time.Now()
	m, err := u.upload(ctx, path)
	metrics.MediaUploadDuration.WithLabelValues(metrics.Result(err)).Observe(time.Since(start).Seconds())
	return m, err
}

func (u *Uploader) upload(ctx context.Context, path string) (*domain.Media, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}

	key := keyPrefix + uuid.NewString() + mtype.Extension()
	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(mtype.String()),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &domain.Media{
		URL:         u.publicURL + "/" + key,
		Key:         key,
		ContentType: mtype.String(),
		Size:        info.Size(),
	}, nil
}

// Delete removes the object behind a URL returned by Upload.
func (u *Uploader) Delete(ctx context.Context, rawURL string) error {
	key, err := u.keyFromURL(rawURL)
	if err != nil {
		return err
	}
	_, err = u.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (u *Uploader) keyFromURL(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, u.publicURL+"/") {
		return "", fmt.Errorf("%w: %s", errForeignURL, rawURL)
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, u.publicURL+"/"))
	if err != nil || key == "" {
		return "", fmt.Errorf("%w: %s", errForeignURL, rawURL)
	}
	return key, nil
}
