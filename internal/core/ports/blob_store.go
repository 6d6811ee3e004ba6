package ports

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// BlobStore keeps listing photos outside the relational store.
type BlobStore interface {
	// Put stores the photo and returns the public URL that references it.
	Put(ctx context.Context, photo domain.Photo) (string, error)
	// Delete releases the object referenced by url.
	Delete(ctx context.Context, url string) error
	// Open streams the object with the given id. The caller closes Body.
	Open(ctx context.Context, id string) (*domain.StoredPhoto, error)
}

// PhotoReleaser releases blob references asynchronously once the owning row
// no longer points at them.
type PhotoReleaser interface {
	Release(url string)
}
