package domain

import "time"

const UnnamedDocument = "Unnamed document"

// Document is a reference file shared with responders. OriginalName and
// UploadedAt may be missing in the source data.
type Document struct {
	ID           string
	OriginalName string
	MimeType     string
	Size         int64
	UploadedAt   *time.Time
}

func (d Document) DisplayName() string {
	if d.OriginalName == "" {
		return UnnamedDocument
	}
	return d.OriginalName
}
