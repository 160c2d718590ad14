package adapters

import (
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

func MapApiDocumentToDomain(d api.Document) domain.Document {
	doc := domain.Document{
		ID:           d.ID,
		OriginalName: d.OriginalName,
		MimeType:     d.MimeType,
		Size:         d.Size,
	}
	if t, ok := ParseTimestamp(d.UploadedAt); ok {
		doc.UploadedAt = &t
	}
	return doc
}

func MapDomainDocumentToApi(d domain.Document) api.Document {
	doc := api.Document{
		ID:           d.ID,
		OriginalName: d.OriginalName,
		MimeType:     d.MimeType,
		Size:         d.Size,
	}
	if d.UploadedAt != nil {
		doc.UploadedAt = FormatTimestamp(*d.UploadedAt)
	}
	return doc
}

func MapDomainDocumentsToApi(docs []domain.Document) []api.Document {
	res := make([]api.Document, 0, len(docs))
	for _, d := range docs {
		res = append(res, MapDomainDocumentToApi(d))
	}
	return res
}
