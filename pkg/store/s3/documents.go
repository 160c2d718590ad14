package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Object metadata keys come back lower-cased from S3.
const originalNameKey = "original-name"

var ErrNotFound = errors.New("document not found")

type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// DocumentStore keeps shared documents as objects under bucket/prefix, one
// object per document keyed by its id.
type DocumentStore struct {
	client ObjectAPI
	bucket string
	prefix string
}

func NewFromConfig(cfg aws.Config, bucket, prefix string) (*DocumentStore, error) {
	return NewDocumentStore(s3.NewFromConfig(cfg), bucket, prefix)
}

func NewDocumentStore(client ObjectAPI, bucket, prefix string) (*DocumentStore, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &DocumentStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *DocumentStore) key(id string) string {
	return s.prefix + id
}

func (s *DocumentStore) ListDocuments(ctx context.Context) ([]api.Document, error) {
	logger := zerolog.Ctx(ctx)

	docs := make([]api.Document, 0)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents in %s: %w", s.bucket, err)
		}

		for _, obj := range page.Contents {
			doc, err := s.describe(ctx, obj)
			if err != nil {
				logger.Warn().Err(err).Str("key", aws.ToString(obj.Key)).Msg("failed to read document metadata")
				continue
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *DocumentStore) describe(ctx context.Context, obj types.Object) (api.Document, error) {
	key := aws.ToString(obj.Key)
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    obj.Key,
	})
	if err != nil {
		return api.Document{}, err
	}

	doc := api.Document{
		ID:           path.Base(key),
		OriginalName: head.Metadata[originalNameKey],
		MimeType:     aws.ToString(head.ContentType),
		Size:         aws.ToInt64(obj.Size),
	}
	if obj.LastModified != nil {
		doc.UploadedAt = adapters.FormatTimestamp(*obj.LastModified)
	}
	return doc, nil
}

func (s *DocumentStore) UploadDocument(ctx context.Context, name, mimeType string, content io.Reader) (*api.Document, error) {
	id := uuid.NewString()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        content,
		ContentType: aws.String(mimeType),
		Metadata:    map[string]string{originalNameKey: name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	return &api.Document{
		ID:           id,
		OriginalName: name,
		MimeType:     mimeType,
	}, nil
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, id string) error {
	key := s.key(id)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
