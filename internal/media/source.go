package media

import "strings"

// Source describes where the image of a mutation request comes from.
// It is one of UploadedBytes, DirectURL or Unchanged.
type Source interface {
	isSource()
}

// UploadedBytes is an image file sent with the request.
type UploadedBytes struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DirectURL is an image reference supplied as a URL string.
type DirectURL struct {
	Value string
}

// Unchanged means the request carries no image.
type Unchanged struct{}

func (UploadedBytes) isSource() {}
func (DirectURL) isSource()     {}
func (Unchanged) isSource()     {}

// SourceFrom picks the variant for a request: a file wins over a URL, and a
// blank or whitespace-only URL counts as absent.
func SourceFrom(file *UploadedBytes, url string) Source {
	if file != nil && len(file.Data) > 0 {
		return *file
	}
	if url = strings.TrimSpace(url); url != "" {
		return DirectURL{Value: url}
	}
	return Unchanged{}
}
