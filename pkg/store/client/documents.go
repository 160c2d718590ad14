package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/de-tools/relief-atlas/pkg/models/api"
)

const documentField = "documentFile"

func (c *Client) ListDocuments(ctx context.Context) ([]api.Document, error) {
	var docs []api.Document
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents", nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	if docs == nil {
		docs = []api.Document{}
	}
	return docs, nil
}

// UploadDocument streams content as a multipart form so large files are not
// buffered in memory.
func (c *Client) UploadDocument(ctx context.Context, name, mimeType string, content io.Reader) (*api.Document, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, documentField, name))
		header.Set("Content-Type", mimeType)

		part, err := form.CreatePart(header)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/documents", pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var doc api.Document
	if err := c.do(req, &doc); err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/documents/%s", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
