package drive

import (
	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// FileMapper converts between drive.File and domain.File.
var FileMapper google.Mapper[*drive.File, domain.File] = google.MapperFuncs[*drive.File, domain.File]{
	ToLocal:  toLocalFile,
	ToRemote: toRemoteFile,
}

func toLocalFile(f *drive.File) *domain.File {
	return &domain.File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Description:  f.Description,
		Parents:      f.Parents,
		Size:         f.Size,
		WebLink:      ResolveWebURL(f.Id, f.WebViewLink),
		Trashed:      f.Trashed,
		CreatedTime:  google.ParseTime(f.CreatedTime),
		ModifiedTime: google.ParseTime(f.ModifiedTime),
	}
}

// toRemoteFile keeps only fields Drive accepts on create and update.
func toRemoteFile(f *domain.File) *drive.File {
	return &drive.File{
		Id:          f.ID,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Description: f.Description,
		Parents:     f.Parents,
		Trashed:     f.Trashed,
	}
}
