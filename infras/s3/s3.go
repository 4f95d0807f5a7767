package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	otelAttrSize      = "size"

	defaultRegion = "auto"
)

// Object is a file to store under Key in the configured bucket.
type Object struct {
	Key         string
	ContentType string
	Body        io.Reader
}

type S3 interface {
	Put(ctx context.Context, object Object) (url string, err error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (key string)
}

type s3Impl struct {
	client       *s3.Client
	bucket       string
	publicDomain string
	apiEndpoint  string
	otel         otel.Otel
}

// ObjectKey joins path segments into a bucket key without a leading slash.
func ObjectKey(parts ...string) string {
	return strings.TrimPrefix(path.Join(parts...), "/")
}

func (svc *s3Impl) Put(ctx context.Context, object Object) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Put")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	buf := bytes.NewBuffer(nil)
	if _, err = buf.ReadFrom(object.Body); err != nil {
		return constant.Empty, fmt.Errorf("failed to read object body: %w", err)
	}

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: object.Key,
		otelAttrBucket:    svc.bucket,
		otelAttrSize:      buf.Len(),
	})

	body := bytes.NewReader(buf.Bytes())

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(object.Key),
		Body:          body,
		ContentType:   aws.String(object.ContentType),
		ContentLength: aws.Int64(body.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", object.Key).Msg("failed to upload object")

		return constant.Empty, fmt.Errorf("failed to upload object: %w", err)
	}

	return svc.publicURL(object.Key), nil
}

func (svc *s3Impl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    svc.bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete object")

		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (svc *s3Impl) publicURL(key string) string {
	return strings.TrimSuffix(svc.publicDomain, "/") + "/" + key
}

// KeyFromURL reverses publicURL. Path-style API URLs of the same bucket are accepted too.
// URLs pointing elsewhere yield an empty key.
func (svc *s3Impl) KeyFromURL(url string) string {
	prefixes := []string{strings.TrimSuffix(svc.publicDomain, "/") + "/"}

	if svc.apiEndpoint != constant.Empty {
		prefixes = append(prefixes, strings.TrimSuffix(svc.apiEndpoint, "/")+"/"+svc.bucket+"/")
	}

	for _, prefix := range prefixes {
		if prefix == "/" {
			continue
		}

		if key, ok := strings.CutPrefix(url, prefix); ok && key != constant.Empty {
			return key
		}
	}

	return constant.Empty
}

func New(config *config.Config, otel otel.Otel) S3 {
	s3Config := config.External.S3

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s3Config.AccessKeyID,
			s3Config.SecretAccessKey,
			constant.Empty,
		)),
		awsConfig.WithRegion(defaultRegion),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s3Config.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(s3Config.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	log.Info().Str("bucket", s3Config.BucketName).Msg("Object storage client initialized")

	return &s3Impl{
		client:       client,
		bucket:       s3Config.BucketName,
		publicDomain: s3Config.PublicDomain,
		apiEndpoint:  s3Config.APIEndpoint,
		otel:         otel,
	}
}
