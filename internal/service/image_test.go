package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutritrack/backend/config"
)

type mockObjectClient struct {
	mock.Mock
}

func (m *mockObjectClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockObjectClient) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestS3Store(putter ObjectClient) *S3ImageStore {
	cfg := &config.S3Config{BucketName: "meals", Region: "eu-west-1"}
	store := NewS3ImageStore(cfg, nil)
	store.client = putter
	return store
}

func TestS3ImageStoreUploadsDataURI(t *testing.T) {
	putter := new(mockObjectClient)
	var body string
	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "meals" && aws.ToString(in.ContentType) == "image/png"
	})).Run(func(args mock.Arguments) {
		data, _ := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		body = string(data)
	}).Return(&s3.PutObjectOutput{}, nil)

	store := newTestS3Store(putter)
	url, err := store.Store(context.Background(), "user-1", "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://meals.s3.eu-west-1.amazonaws.com/food-images/user-1/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)
	assert.Equal(t, "hello", body)
	putter.AssertExpectations(t)
}

func TestS3ImageStorePassesThroughURLs(t *testing.T) {
	putter := new(mockObjectClient)
	store := newTestS3Store(putter)

	url, err := store.Store(context.Background(), "user-1", "https://example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.jpg", url)
	putter.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestS3ImageStoreUploadFailure(t *testing.T) {
	putter := new(mockObjectClient)
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := newTestS3Store(putter).Store(context.Background(), "user-1", "data:image/jpeg;base64,aGVsbG8=")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestS3ImageStoreRemove(t *testing.T) {
	client := new(mockObjectClient)
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Bucket) == "meals" && aws.ToString(in.Key) == "food-images/user-1/abc.png"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()

	store := newTestS3Store(client)
	ctx := context.Background()
	require.NoError(t, store.Remove(ctx, "https://meals.s3.eu-west-1.amazonaws.com/food-images/user-1/abc.png"))

	// Foreign URLs and inline images are never deleted
	require.NoError(t, store.Remove(ctx, "https://example.com/food-images/user-1/abc.png"))
	require.NoError(t, store.Remove(ctx, "data:image/png;base64,aGVsbG8="))
	client.AssertExpectations(t)

	failing := new(mockObjectClient)
	failing.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))
	err := newTestS3Store(failing).Remove(ctx, "https://meals.s3.eu-west-1.amazonaws.com/food-images/user-1/abc.png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestInlineImageStore(t *testing.T) {
	ref := "data:image/png;base64,aGVsbG8="
	got, err := InlineImageStore{}.Store(context.Background(), "user-1", ref)
	require.NoError(t, err)
	assert.Equal(t, ref, got)
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		wantType string
		wantData string
		wantErr  bool
	}{
		{"base64 png", "data:image/png;base64,aGVsbG8=", "image/png", "hello", false},
		{"plain text", "data:,hi%20there", "text/plain", "hi%20there", false},
		{"with params", "data:image/jpeg;name=x.jpg;base64,aGk=", "image/jpeg", "hi", false},
		{"no comma", "data:image/png;base64", "", "", true},
		{"bad base64", "data:image/png;base64,!!!", "", "", true},
		{"not a data uri", "https://example.com", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, data, err := DecodeDataURI(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, contentType)
			assert.Equal(t, tt.wantData, string(data))
		})
	}
}
