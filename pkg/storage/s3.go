// Package storage uploads housing and post images to S3 and hands back
// publicly resolvable URLs. Persistence of the URL belongs to the caller.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 wraps the object storage client.
type S3 struct {
	client *s3.Client
	bucket string
	region string
}

// New builds an uploader for the given bucket using the default AWS
// credential chain.
func New(ctx context.Context, bucket, region string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	log.Printf("[storage] using bucket %s (%s)", bucket, region)
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

// Upload stores the object under key and returns its public URL.
func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
