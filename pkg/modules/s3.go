package modules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// maxObjectSize bounds the bytes read from a single object.
const maxObjectSize = 4 << 20

// ObjectGetter is the subset of *s3.Client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads modules from an S3 bucket. A key is looked up under the
// configured prefix.
//
// Example usage:
//
//	client := modules.NewS3Client(modules.S3ClientOptions{Region: "us-east-1"})
//	src := modules.NewS3Source(client, "estudos-content", "modules/")
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewS3Source returns a Source reading bucket/prefix/key.
func NewS3Source(client ObjectGetter, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// Fetch downloads the object for key. Objects larger than 4 MiB are rejected.
func (s *S3Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	objectKey := path.Join(s.prefix, key)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrModuleNotFound, s.bucket, objectKey)
		}
		return nil, fmt.Errorf("modules: get s3://%s/%s: %w", s.bucket, objectKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("modules: read s3://%s/%s: %w", s.bucket, objectKey, err)
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("modules: s3://%s/%s exceeds %d bytes", s.bucket, objectKey, maxObjectSize)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// S3ClientOptions configures NewS3Client.
type S3ClientOptions struct {
	Region string

	// Endpoint overrides the service endpoint, for S3-compatible stores.
	Endpoint string

	UsePathStyle bool

	// AccessKeyID and SecretAccessKey are static credentials. When both are
	// empty, requests are sent unsigned, which suits public buckets.
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client from explicit options.
func NewS3Client(o S3ClientOptions) *s3.Client {
	opts := s3.Options{
		Region:       o.Region,
		UsePathStyle: o.UsePathStyle,
		Credentials:  aws.AnonymousCredentials{},
	}
	if o.Endpoint != "" {
		opts.BaseEndpoint = aws.String(o.Endpoint)
	}
	if o.AccessKeyID != "" || o.SecretAccessKey != "" {
		creds := aws.Credentials{
			AccessKeyID:     o.AccessKeyID,
			SecretAccessKey: o.SecretAccessKey,
			Source:          "estudos config",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}
