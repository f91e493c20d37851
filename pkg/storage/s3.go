package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/levenlabs/go-lflag"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Provider stores artifacts as objects in an S3 compatible bucket.
type S3Provider struct {
	client    *minio.Client
	endpoint  string
	accessKey string
	secretKey string
	bucket    string
	region    string
}

func configuredS3() *S3Provider {
	endpoint := lflag.String("s3-endpoint", "", "S3 compatible endpoint, e.g. https://<account>.r2.cloudflarestorage.com")
	accessKey := lflag.String("s3-access-key", "", "S3 access key")
	secretKey := lflag.String("s3-secret-key", "", "S3 secret key")
	bucket := lflag.String("s3-bucket", "", "Bucket holding artifact objects")
	region := lflag.String("s3-region", "auto", "S3 region")

	s := &S3Provider{}

	lflag.Do(func() {
		s.endpoint = *endpoint
		s.accessKey = *accessKey
		s.secretKey = *secretKey
		s.bucket = *bucket
		s.region = *region
	})

	return s
}

// Validate ensures the configuration is valid.
func (s *S3Provider) Validate() error {
	if s.endpoint == "" {
		return fmt.Errorf("s3-endpoint is required")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3-bucket is required")
	}
	return nil
}

// Init creates the minio client.
func (s *S3Provider) Init(ctx context.Context) error {
	useSSL := !strings.HasPrefix(strings.ToLower(s.endpoint), "http://")
	client, err := minio.New(sanitizeEndpoint(s.endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(s.accessKey, s.secretKey, ""),
		Secure:       useSSL,
		Region:       s.region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create s3 client (%s): %w", s.endpoint, err)
	}
	s.client = client
	return nil
}

// Get downloads the named object.
func (s *S3Provider) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapErr(name, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.wrapErr(name, err)
	}
	return b, nil
}

// Put uploads data as a single part object.
func (s *S3Provider) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      contentType(name),
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("failed to upload artifact %s: %w", name, err)
	}
	return nil
}

// List returns every object key in the bucket.
func (s *S3Provider) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list artifacts: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op; the minio client holds no persistent connections of its own.
func (s *S3Provider) Close() error {
	return nil
}

func (s *S3Provider) wrapErr(name string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("failed to fetch artifact %s: %w", name, err)
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
