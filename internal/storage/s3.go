// Package storage issues presigned upload URLs for project images and certificate files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("storage: uploads are not configured")

// Options configures the S3 (or S3 compatible) target.
type Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	Expires       time.Duration
}

// Upload is a presigned PUT target.
type Upload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Presigner signs PUT requests against a bucket.
type Presigner struct {
	client  *s3.PresignClient
	opts    Options
	newKey  func(filename string, now time.Time) string
	nowFunc func() time.Time
}

// NewPresigner builds a Presigner. It returns ErrDisabled when opts.Bucket is empty.
func NewPresigner(ctx context.Context, opts Options) (*Presigner, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, ErrDisabled
	}
	if opts.Expires <= 0 {
		opts.Expires = 15 * time.Minute
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Presigner{
		client:  s3.NewPresignClient(client),
		opts:    opts,
		newKey:  objectKey,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}, nil
}

// PresignPut returns a URL the caller can PUT the file body to.
func (p *Presigner) PresignPut(ctx context.Context, filename, contentType string) (Upload, error) {
	if err := domain.RequireFields("Filename and content type are required", filename, contentType); err != nil {
		return Upload{}, err
	}
	now := p.nowFunc()
	key := p.newKey(filename, now)
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.opts.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.opts.Expires))
	if err != nil {
		return Upload{}, fmt.Errorf("presign put: %w", err)
	}
	return Upload{
		UploadURL: req.URL,
		ObjectKey: key,
		PublicURL: p.publicURL(key),
		ExpiresAt: now.Add(p.opts.Expires),
	}, nil
}

func (p *Presigner) publicURL(key string) string {
	base := strings.TrimRight(p.opts.PublicBaseURL, "/")
	switch {
	case base != "":
		return base + "/" + key
	case p.opts.Endpoint != "":
		return strings.TrimRight(p.opts.Endpoint, "/") + "/" + p.opts.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.opts.Bucket, p.opts.Region, key)
	}
}

// objectKey places uploads under uploads/yyyy/mm/<uuid><ext>.
func objectKey(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}
