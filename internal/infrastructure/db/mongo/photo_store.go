package mongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const defaultContentType = "application/octet-stream"

// PhotoStore implements ports.BlobStore on a GridFS bucket. Stored photos
// are addressed as "<urlBase>/<object id hex>".
type PhotoStore struct {
	bucket  *gridfs.Bucket
	urlBase string
}

func NewPhotoStore(db *mongo.Database, bucketName, urlBase string) (*PhotoStore, error) {
	opts := options.GridFSBucket()
	if bucketName != "" {
		opts.SetName(bucketName)
	}
	bucket, err := gridfs.NewBucket(db, opts)
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &PhotoStore{bucket: bucket, urlBase: strings.TrimRight(urlBase, "/")}, nil
}

// Put uploads the photo under a random name and returns its URL.
func (s *PhotoStore) Put(_ context.Context, p domain.Photo) (string, error) {
	contentType := p.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	id := primitive.NewObjectID()
	name := uuid.NewString() + strings.ToLower(path.Ext(p.Filename))
	opts := options.GridFSUpload().SetMetadata(bson.M{
		"contentType":  contentType,
		"originalName": p.Filename,
	})

	if err := s.bucket.UploadFromStreamWithID(id, name, bytes.NewReader(p.Data), opts); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return s.urlBase + "/" + id.Hex(), nil
}

// Delete removes the photo behind url. URLs this store did not issue and
// photos that are already gone are ignored.
func (s *PhotoStore) Delete(ctx context.Context, url string) error {
	id, ok := s.objectID(url)
	if !ok {
		return nil
	}
	if err := s.bucket.DeleteContext(ctx, id); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("delete photo %s: %w", id.Hex(), err)
	}
	return nil
}

// Open streams the photo with the given id. The caller closes Body.
func (s *PhotoStore) Open(_ context.Context, id string) (*domain.StoredPhoto, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPhotoNotFound
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("open photo: %w", err)
	}

	file := stream.GetFile()
	contentType := defaultContentType
	if v, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && v != "" {
		contentType = v
	}

	return &domain.StoredPhoto{ContentType: contentType, Size: file.Length, Body: stream}, nil
}

func (s *PhotoStore) objectID(url string) (primitive.ObjectID, bool) {
	hex, ok := strings.CutPrefix(url, s.urlBase+"/")
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
