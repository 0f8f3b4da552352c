package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dtroode/streamhub-server/internal/model"
)

// uploaderAPI is satisfied by *manager.Uploader.
type uploaderAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

var _ model.ObjectBackend = (*Client)(nil)

// Client stores media objects in an S3 bucket.
type Client struct {
	uploader  uploaderAPI
	bucket    string
	publicURL string
}

// Params configures the S3 backend. Credentials come from the default AWS chain.
type Params struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
	Bucket       string
	PublicURL    string
}

func NewClient(ctx context.Context, p Params) (*Client, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(p.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.Endpoint)
		}
		o.UsePathStyle = p.UsePathStyle
	})

	publicURL := p.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://s3.%s.amazonaws.com", p.Region)
	}

	return NewClientWithUploader(manager.NewUploader(client), p.Bucket, publicURL), nil
}

// NewClientWithUploader allows injecting a fake uploader (used in tests).
func NewClientWithUploader(uploader uploaderAPI, bucket, publicURL string) *Client {
	return &Client{
		uploader:  uploader,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Put uploads an object and returns its public URL. size is unused; the
// manager streams unknown-length bodies in parts.
func (c *Client) Put(ctx context.Context, key string, reader io.Reader, _ int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   reader,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return c.publicURL + "/" + c.bucket + "/" + key, nil
}
