package domain

import "time"

// File is the local model of a Google Drive file.
type File struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type,omitempty"`
	Description  string    `json:"description,omitempty"`
	Parents      []string  `json:"parents,omitempty"`
	Size         int64     `json:"size,omitempty"`
	WebLink      string    `json:"web_link,omitempty"`
	Trashed      bool      `json:"trashed,omitempty"`
	CreatedTime  time.Time `json:"created_time,omitzero"`
	ModifiedTime time.Time `json:"modified_time,omitzero"`
}

// IsFolder returns true if the file is a Drive folder.
func (f *File) IsFolder() bool {
	return f.MimeType == "application/vnd.google-apps.folder"
}
