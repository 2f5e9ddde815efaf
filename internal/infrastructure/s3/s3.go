package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"expiry-scanner-api/config"
	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/domain/upload"
)

type presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Client struct {
	logger     *zap.Logger
	presign    presigner
	bucket     string
	publicBase string
	ttl        time.Duration
	now        func() time.Time
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	c := newClient(logger, awsCfg, cfg)
	logger.Info("s3 presigner ready",
		zap.String("bucket", cfg.BucketUploads),
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("ttl", cfg.PresignTTL),
	)

	return c, nil
}

func newClient(logger *zap.Logger, awsCfg aws.Config, cfg config.S3) *Client {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &Client{
		logger:     logger,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.BucketUploads,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		ttl:        cfg.PresignTTL,
		now:        time.Now,
	}
}

// PresignPut returns a PUT credential for key. The signature covers only the
// host; Content-Type is handed back in Headers so the transfer stores the
// declared type as object metadata.
func (c *Client) PresignPut(ctx context.Context, key, contentType string) (upload.WriteCredential, error) {
	if c.bucket == "" {
		return upload.WriteCredential{}, apperr.New(apperr.ErrConfiguration, "S3_BUCKET_UPLOADS is not set")
	}
	if c.publicBase == "" {
		return upload.WriteCredential{}, apperr.New(apperr.ErrConfiguration, "S3_PUBLIC_BASE_URL is not set")
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	issued := c.now()
	req, err := c.presign.PresignPutObject(ctx, in, s3.WithPresignExpires(c.ttl))
	if err != nil {
		return upload.WriteCredential{}, apperr.Wrap(apperr.ErrStorage, "failed to sign upload", err)
	}

	headers := make(map[string]string, len(req.SignedHeader)+1)
	for k, vs := range req.SignedHeader {
		if strings.EqualFold(k, "Host") || len(vs) == 0 {
			continue
		}
		headers[http.CanonicalHeaderKey(k)] = vs[0]
	}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}

	return upload.WriteCredential{
		URL:       req.URL,
		Method:    req.Method,
		Headers:   headers,
		ExpiresAt: issued.Add(c.ttl),
	}, nil
}

// GetPublicURL never touches the network. Each key segment is path-escaped
// so the URL path always decodes back to key.
func (c *Client) GetPublicURL(key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return c.publicBase + "/" + strings.Join(segs, "/")
}

func (c *Client) GetBucket() string { return c.bucket }
