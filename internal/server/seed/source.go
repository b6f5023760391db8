package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
)

const s3Scheme = "s3://"

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client          = func(cfg aws.Config, optFns ...func(*s3.Options)) objectGetter {
		return s3.NewFromConfig(cfg, optFns...)
	}
	readFile = os.ReadFile
)

// Fetch returns the raw seed file at src: a local path or s3://bucket/key.
func Fetch(ctx context.Context, src string, cfg *config.Config) ([]byte, error) {
	if !strings.HasPrefix(src, s3Scheme) {
		data, err := readFile(src)
		if err != nil {
			return nil, fmt.Errorf("error reading seed file: %w", err)
		}
		return data, nil
	}

	bucket, key, err := parseS3URL(src)
	if err != nil {
		return nil, err
	}

	client, err := s3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", src, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", src, err)
	}
	return data, nil
}

func parseS3URL(src string) (string, string, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(src, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 URL %q, want s3://bucket/key", src)
	}
	return bucket, key, nil
}

// s3Client builds a client with static credentials. A base endpoint switches
// to path-style addressing for MinIO and similar servers.
func s3Client(ctx context.Context, cfg *config.Config) (objectGetter, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return newS3Client(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}
