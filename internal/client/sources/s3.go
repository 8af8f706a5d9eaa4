package sources

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Opener streams objects from S3 or an S3-compatible store. The client is
// built on first use.
type S3Opener struct {
	cfg Config

	once   sync.Once
	client *s3.Client
	err    error
}

func NewS3Opener(cfg Config) *S3Opener {
	return &S3Opener{cfg: cfg}
}

func (o *S3Opener) getClient(ctx context.Context) (*s3.Client, error) {
	o.once.Do(func() {
		var opts []func(*config.LoadOptions) error
		if o.cfg.S3Region != "" {
			opts = append(opts, config.WithRegion(o.cfg.S3Region))
		}
		if o.cfg.S3AccessKey != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(o.cfg.S3AccessKey, o.cfg.S3SecretKey, ""),
			))
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			o.err = fmt.Errorf("load aws config: %w", err)
			return
		}

		o.client = s3.NewFromConfig(awsCfg, func(so *s3.Options) {
			if o.cfg.S3Endpoint != "" {
				so.BaseEndpoint = aws.String(o.cfg.S3Endpoint)
				so.UsePathStyle = true
			}
		})
	})
	return o.client, o.err
}

func (o *S3Opener) Open(ctx context.Context, location string) (*Source, error) {
	bucket, key, err := splitObjectURL(location, "s3")
	if err != nil {
		return nil, err
	}

	client, err := o.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", location, err)
	}

	return &Source{Name: objectName(key), Body: out.Body}, nil
}
