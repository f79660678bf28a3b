package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/clipshare/internal/filex"
	"github.com/dmitrijs2005/clipshare/internal/netx"
)

const s3Scheme = "s3://"

// S3Config locates the object store used for s3:// destinations.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// PutObjectAPI is the part of *s3.Client used by the S3 sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) PutObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}

	stdout io.Writer = os.Stdout

	httpClient netx.HTTPClient = http.DefaultClient
)

// OpenSink returns a writer for dest: "" or "-" is stdout, s3://bucket/key
// and presigned http(s) URLs upload on Close, anything else is a local file
// path.
func OpenSink(ctx context.Context, dest string, cfg S3Config, contentType string) (io.WriteCloser, error) {
	switch {
	case dest == "" || dest == "-":
		return nopCloser{stdout}, nil
	case strings.HasPrefix(dest, s3Scheme):
		return newS3Sink(ctx, dest, cfg, contentType)
	case netx.IsPresignedURL(dest):
		return &presignedSink{ctx: ctx, url: dest, contentType: contentType}, nil
	}

	dir, err := filex.EnsureDir(filepath.Dir(dest))
	if err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, filepath.Base(dest)), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(u string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(u, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", u)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("s3 url must be s3://bucket/key: %q", u)
	}
	return bucket, key, nil
}

type s3Sink struct {
	ctx         context.Context
	api         PutObjectAPI
	bucket, key string
	contentType string
	buf         bytes.Buffer
	closed      bool
}

func newS3Sink(ctx context.Context, dest string, cfg S3Config, contentType string) (*s3Sink, error) {
	bucket, key, err := ParseS3URL(dest)
	if err != nil {
		return nil, err
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	api := newS3Client(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &s3Sink{ctx: ctx, api: api, bucket: bucket, key: key, contentType: contentType}, nil
}

func (s *s3Sink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Close uploads everything written so far as a single object.
func (s *s3Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	_, err := s.api.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(s.buf.Bytes()),
		ContentType: aws.String(s.contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

type presignedSink struct {
	ctx         context.Context
	url         string
	contentType string
	buf         bytes.Buffer
	closed      bool
}

func (s *presignedSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *presignedSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return netx.PutPresigned(s.ctx, httpClient, s.url, s.contentType, s.buf.Bytes())
}

// ContentType is the MIME type of an export in format f.
func ContentType(f Format) string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
