package records

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/dutybadge/internal/server/models"
)

// objectAPI is the part of *s3.Client the store needs.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3-compatible object store such as MinIO.
type S3Options struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	Key          string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// S3Store keeps the JSON snapshot as a single object. A PutObject replaces
// the object as a whole, which gives the same old-or-new guarantee as a
// rename on local disk.
type S3Store struct {
	client objectAPI
	bucket string
	key    string
	loc    *time.Location
}

// NewS3Store builds a client with static credentials and path-style
// addressing against opts.BaseEndpoint.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" || opts.Key == "" {
		return nil, errors.New("s3 storage requires a bucket and an object key")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, opts.Bucket, opts.Key), nil
}

func newS3Store(client objectAPI, bucket, key string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key, loc: time.Local}
}

func (s *S3Store) Load(ctx context.Context) (map[string]*models.UserRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return map[string]*models.UserRecord{}, nil
		}
		return nil, ioFailure("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, ioFailure("read object", err)
	}
	return Decode(data, s.loc)
}

func (s *S3Store) Save(ctx context.Context, recs map[string]*models.UserRecord) error {
	data, err := Encode(recs)
	if err != nil {
		return ioFailure("encode", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return ioFailure("put object", err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }

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
