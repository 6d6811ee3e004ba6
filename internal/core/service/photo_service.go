package service

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// PhotoService serves stored listing photos.
type PhotoService struct {
	blobs ports.BlobStore
}

func NewPhotoService(blobs ports.BlobStore) *PhotoService {
	return &PhotoService{blobs: blobs}
}

func (s *PhotoService) Open(ctx context.Context, id string) (*domain.StoredPhoto, error) {
	if id == "" {
		return nil, domain.ErrPhotoNotFound
	}
	return s.blobs.Open(ctx, id)
}
