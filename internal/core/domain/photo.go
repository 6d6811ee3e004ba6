package domain

import "io"

// Photo is an uploaded image on its way into the blob store.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoredPhoto is an image read back from the blob store.
type StoredPhoto struct {
	ContentType string
	Size        int64
	Body        io.ReadCloser
}
