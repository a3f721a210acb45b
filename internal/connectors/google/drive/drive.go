// Package drive wraps the Google Drive v3 API behind the facade.
package drive

import (
	"context"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// KindFiles is the substitute record kind for files.
const KindFiles = "drive/files"

// Facade exposes Drive resources.
type Facade struct {
	deps google.Deps
	svc  *drive.Service
}

// New creates the Drive facade. No remote service is created when the API
// is substituted.
func New(ctx context.Context, deps google.Deps) (*Facade, error) {
	f := &Facade{deps: deps}
	if deps.Local {
		return f, nil
	}
	svc, err := google.NewDriveService(ctx, deps)
	if err != nil {
		return nil, err
	}
	f.svc = svc
	return f, nil
}

// Service returns the generated client, nil when substituted.
func (f *Facade) Service() *drive.Service {
	return f.svc
}

var fileIdentity = google.Identity[domain.File]{
	Get: func(f *domain.File) string { return f.ID },
	Set: func(f *domain.File, id string) { f.ID = id },
}

// Files returns the files collection.
func (f *Facade) Files() google.Resource[domain.File] {
	return google.Resolve(f.deps, KindFiles, fileIdentity, f.remoteFiles)
}

func (f *Facade) remoteFiles() google.Resource[domain.File] {
	files := f.svc.Files
	ops := google.Operations[*drive.File]{
		Get: func(ctx context.Context, id string, req google.Request) (*drive.File, error) {
			return files.Get(id).Fields(fileFields).Context(ctx).Do(req.CallOptions()...)
		},
		Insert: func(ctx context.Context, item *drive.File, req google.Request) (*drive.File, error) {
			return files.Create(item).Fields(fileFields).Context(ctx).Do(req.CallOptions()...)
		},
		Update: func(ctx context.Context, id string, item *drive.File, req google.Request) (*drive.File, error) {
			// Id and parents are not writable through update.
			item.Id = ""
			item.Parents = nil
			return files.Update(id, item).Fields(fileFields).Context(ctx).Do(req.CallOptions()...)
		},
		Delete: func(ctx context.Context, id string, req google.Request) error {
			return files.Delete(id).Context(ctx).Do(req.CallOptions()...)
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*drive.File, string, error) {
			call := files.List().Fields("nextPageToken", "files("+fileFields+")").Context(ctx)
			if req.Filter != "" {
				call = call.Q(req.Filter)
			}
			if req.PageSize > 0 {
				call = call.PageSize(req.PageSize)
			}
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			resp, err := call.Do(req.CallOptions()...)
			if err != nil {
				return nil, "", err
			}
			return resp.Files, resp.NextPageToken, nil
		},
		Download: func(ctx context.Context, id string, req google.Request) (*google.Download, error) {
			return downloadFile(ctx, f.svc, id, req)
		},
	}
	return google.NewResourceAdapter(KindFiles, files, ops, FileMapper)
}
