package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/store/client"
	"github.com/de-tools/relief-atlas/pkg/store/s3"
	"github.com/rs/zerolog"
)

var (
	ErrTooLarge        = errors.New("document exceeds the size limit")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrNotFound        = errors.New("document not found")
)

// AllowedTypes are the MIME types accepted for upload.
var AllowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Store is implemented by the backend API client and the S3 document store.
type Store interface {
	ListDocuments(ctx context.Context) ([]api.Document, error)
	UploadDocument(ctx context.Context, name, mimeType string, content io.Reader) (*api.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type Manager interface {
	List(ctx context.Context, query string) ([]domain.Document, error)
	Upload(ctx context.Context, name, mimeType string, content io.Reader) (*domain.Document, error)
	Delete(ctx context.Context, id string) error
}

type DefaultManager struct {
	store   Store
	maxSize int64
	now     func() time.Time
}

func NewManager(store Store, maxSize int64) (*DefaultManager, error) {
	if store == nil {
		return nil, fmt.Errorf("document store is nil")
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("max document size must be positive")
	}
	return &DefaultManager{store: store, maxSize: maxSize, now: time.Now}, nil
}

// List returns documents whose display name contains query, newest first.
// Documents without an upload time sort last.
func (m *DefaultManager) List(ctx context.Context, query string) ([]domain.Document, error) {
	records, err := m.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	docs := make([]domain.Document, 0, len(records))
	for _, r := range records {
		doc := adapters.MapApiDocumentToDomain(r)
		if needle != "" && !strings.Contains(strings.ToLower(doc.DisplayName()), needle) {
			continue
		}
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].UploadedAt, docs[j].UploadedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	return docs, nil
}

func (m *DefaultManager) Upload(ctx context.Context, name, mimeType string, content io.Reader) (*domain.Document, error) {
	mediaType, err := m.mediaType(name, mimeType)
	if err != nil {
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(content, m.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(buf)) > m.maxSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, m.maxSize)
	}

	stored, err := m.store.UploadDocument(ctx, name, mediaType, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}

	doc := adapters.MapApiDocumentToDomain(*stored)
	if doc.Size == 0 {
		doc.Size = int64(len(buf))
	}
	if doc.MimeType == "" {
		doc.MimeType = mediaType
	}
	if doc.UploadedAt == nil {
		now := m.now().UTC()
		doc.UploadedAt = &now
	}

	zerolog.Ctx(ctx).Info().
		Str("document_id", doc.ID).
		Str("name", doc.DisplayName()).
		Int64("size", doc.Size).
		Msg("document uploaded")
	return &doc, nil
}

func (m *DefaultManager) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("document id is required")
	}
	if err := m.store.DeleteDocument(ctx, id); err != nil {
		if errors.Is(err, client.ErrNotFound) || errors.Is(err, s3.ErrNotFound) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// mediaType validates the declared type, falling back to the file extension.
func (m *DefaultManager) mediaType(name, declared string) (string, error) {
	if declared == "" || declared == "application/octet-stream" {
		declared = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedType)
	}
	for _, allowed := range AllowedTypes {
		if mediaType == allowed {
			return mediaType, nil
		}
	}
	return "", fmt.Errorf("%s (%s): %w", name, mediaType, ErrUnsupportedType)
}
