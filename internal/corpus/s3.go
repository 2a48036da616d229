package corpus

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// objectGetter is the part of the S3 API the corpus needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Source struct {
	client objectGetter
}

func newS3Source(ctx context.Context, opts Options) (*s3Source, error) {
	var awsCfg aws.Config
	var err error

	if opts.AWSAccessKey != "" && opts.AWSSecretKey != "" {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(opts.AWSRegion),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				opts.AWSAccessKey,
				opts.AWSSecretKey,
				"",
			)),
		)
	} else {
		// environment, shared config or instance role
		awsCfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(opts.AWSRegion))
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &s3Source{client: s3.NewFromConfig(awsCfg)}, nil
}

func (s *s3Source) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download corpus s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

func parseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri must be s3://bucket/key: %s", uri)
	}
	return bucket, key, nil
}
