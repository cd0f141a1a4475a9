package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/config"
	"github.com/pageza/nutritrack/backend/internal/logging"
)

// ErrInvalidDataURI is returned when an image reference claims to be a data
// URI but cannot be decoded.
var ErrInvalidDataURI = errors.New("Invalid image data")

const imageKeyPrefix = "food-images/"

// ImageStore decides where the image attached to a food entry lives. Store
// returns the reference to persist on the entry; Remove undoes a Store whose
// entry could not be saved.
type ImageStore interface {
	Store(ctx context.Context, ownerID, ref string) (string, error)
	Remove(ctx context.Context, stored string) error
}

// InlineImageStore keeps the image inline as the submitted data URI.
type InlineImageStore struct{}

func (InlineImageStore) Store(_ context.Context, _ string, ref string) (string, error) {
	return ref, nil
}

func (InlineImageStore) Remove(context.Context, string) error { return nil }

// ObjectClient is the subset of the S3 client used for food images.
type ObjectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore uploads data URI images to S3 and persists the object URL
// instead. References that are not data URIs are kept as they are.
type S3ImageStore struct {
	client    ObjectClient
	bucket    string
	publicURL func(key string) string
	log       *zap.Logger
}

// NewS3ImageStore creates an S3ImageStore from an initialized S3 config
func NewS3ImageStore(s3Config *config.S3Config, log *zap.Logger) *S3ImageStore {
	return &S3ImageStore{
		client:    s3Config.Client,
		bucket:    s3Config.BucketName,
		publicURL: s3Config.PublicURL,
		log:       logging.OrNop(log),
	}
}

func (s *S3ImageStore) Store(ctx context.Context, ownerID, ref string) (string, error) {
	if !strings.HasPrefix(ref, "data:") {
		return ref, nil
	}

	contentType, data, err := DecodeDataURI(ref)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s%s/%s%s", imageKeyPrefix, ownerID, uuid.NewString(), extensionFor(contentType))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload to S3: %v", ErrStorageUnavailable, err)
	}

	url := s.publicURL(key)
	s.log.Info("uploaded food image", zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}

// Remove deletes an object uploaded by Store. URLs outside the bucket's
// food-images prefix are left alone.
func (s *S3ImageStore) Remove(ctx context.Context, stored string) error {
	key, ok := strings.CutPrefix(stored, s.publicURL(""))
	if !ok || !strings.HasPrefix(key, imageKeyPrefix) {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete from S3: %v", ErrStorageUnavailable, err)
	}
	s.log.Info("removed food image", zap.String("key", key))
	return nil
}

// DecodeDataURI parses "data:<mediatype>[;base64],<payload>".
func DecodeDataURI(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta = m
		isBase64 = true
	}

	contentType := "text/plain"
	if meta != "" {
		mediaType, _, err := mime.ParseMediaType(meta)
		if err != nil {
			return "", nil, ErrInvalidDataURI
		}
		contentType = mediaType
	}

	if !isBase64 {
		return contentType, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidDataURI
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
