package records

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/dutybadge/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	putErr  error
	lastPut *s3.PutObjectInput
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_MissingObjectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no such key", nil},
		{"generic not found", &smithy.GenericAPIError{Code: "NotFound"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeObjects()
			fake.getErr = tt.err
			got, err := newS3Store(fake, "duty", "state.json").Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestS3Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	s := newS3Store(fake, "duty", "state.json")
	want := sampleRecords(t)

	require.NoError(t, s.Save(ctx, want))
	require.NotNil(t, fake.lastPut)
	assert.Equal(t, "application/json", aws.ToString(fake.lastPut.ContentType))
	assert.Contains(t, fake.objects, "duty/state.json")

	got, err := s.Load(ctx)
	require.NoError(t, err)
	requireSameRecords(t, want, got)
}

func TestS3Store_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	s := newS3Store(fake, "duty", "state.json")

	fake.putErr = errors.New("connection reset")
	require.ErrorIs(t, s.Save(ctx, sampleRecords(t)), common.ErrIOFailure)

	fake.getErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	_, err := s.Load(ctx)
	require.ErrorIs(t, err, common.ErrIOFailure)

	fake.getErr = nil
	fake.objects["duty/state.json"] = []byte("garbage")
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, common.ErrCorruptState)
}

func TestNewS3Store(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Options{Bucket: "duty"})
	require.Error(t, err)

	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = NewS3Store(context.Background(), S3Options{Bucket: "duty", Key: "state.json"})
	require.Error(t, err)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	s, err := NewS3Store(context.Background(), S3Options{Bucket: "duty", Key: "state.json", BaseEndpoint: "http://127.0.0.1:9000"})
	require.NoError(t, err)
	assert.Equal(t, "duty", s.bucket)
	assert.Equal(t, "state.json", s.key)
	require.NoError(t, s.Close())
}
