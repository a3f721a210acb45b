package drive

import "strings"

// ResolveWebURL returns the browser URL of a Drive file. The web link
// reported by the API takes precedence; otherwise the URL is derived from
// the file id. A gdrive://files/{id} URI is accepted in place of an id.
func ResolveWebURL(id, webLink string) string {
	if webLink != "" {
		return webLink
	}

	id = strings.TrimPrefix(id, "gdrive://files/")
	if id == "" {
		return ""
	}
	return "https://drive.google.com/file/d/" + id + "/view"
}
