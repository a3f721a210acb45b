package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxExportSize is the maximum size of downloaded or exported content (5MB).
const MaxExportSize = 5 * 1024 * 1024

// fileFields is the projection requested when the caller sets none.
const fileFields = "id,name,mimeType,description,parents,size,webViewLink,trashed,createdTime,modifiedTime"

// ExportMimeType returns the format a Workspace file is exported to, or ""
// for files downloaded as stored.
func ExportMimeType(mimeType string) string {
	switch mimeType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return ExportMimeText
	case MimeTypeGoogleSheet:
		return ExportMimeCSV
	default:
		return ""
	}
}

// downloadFile exports Workspace files and downloads everything else.
func downloadFile(ctx context.Context, svc *drive.Service, id string, req google.Request) (*google.Download, error) {
	file, err := svc.Files.Get(id).Fields("id,name,mimeType,size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	if file.MimeType == MimeTypeFolder {
		return nil, fmt.Errorf("%w: %s is a folder", domain.ErrInvalidInput, id)
	}
	if file.Size > MaxExportSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrInvalidInput, id, file.Size, MaxExportSize)
	}

	var resp *http.Response
	contentType := file.MimeType
	if exportMime := ExportMimeType(file.MimeType); exportMime != "" {
		resp, err = svc.Files.Export(id, exportMime).Context(ctx).Download(req.CallOptions()...)
		if err != nil {
			return nil, fmt.Errorf("export file: %w", err)
		}
		contentType = exportMime
	} else {
		resp, err = svc.Files.Get(id).Context(ctx).Download(req.CallOptions()...)
		if err != nil {
			return nil, fmt.Errorf("download file: %w", err)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "" {
			contentType = ct
		}
	}

	return &google.Download{
		Body:        capBody(resp.Body, id, MaxExportSize),
		ContentType: contentType,
		Name:        file.Name,
	}, nil
}

// cappedBody passes reads through up to a limit and fails once the
// content runs past it.
type cappedBody struct {
	rc   io.ReadCloser
	id   string
	max  int64
	left int64
}

func capBody(rc io.ReadCloser, id string, n int64) io.ReadCloser {
	return &cappedBody{rc: rc, id: id, max: n, left: n}
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.left <= 0 {
		var one [1]byte
		n, err := b.rc.Read(one[:])
		if n > 0 {
			return 0, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, b.id, b.max)
		}
		return 0, err
	}
	if int64(len(p)) > b.left {
		p = p[:b.left]
	}
	n, err := b.rc.Read(p)
	b.left -= int64(n)
	return n, err
}

func (b *cappedBody) Close() error {
	return b.rc.Close()
}
