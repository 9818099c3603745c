package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gridFSBucketName = "media"

// GridFSStore stores blobs in a MongoDB GridFS bucket, one file per key
type GridFSStore struct {
	bucket *gridfs.Bucket
}

// NewGridFSStore opens the media bucket of the given database
func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(gridFSBucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "content_type", Value: contentType}})
	if _, err := s.bucket.UploadFromStream(key, bytes.NewReader(data), opts); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *GridFSStore) Open(_ context.Context, key string) (*Blob, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}

	file := stream.GetFile()
	contentType := "application/octet-stream"
	if v, err := file.Metadata.LookupErr("content_type"); err == nil {
		if ct, ok := v.StringValueOK(); ok {
			contentType = ct
		}
	}
	return &Blob{Body: stream, ContentType: contentType, Size: file.Length}, nil
}

func (s *GridFSStore) Exists(ctx context.Context, key string) (bool, error) {
	cursor, err := s.bucket.FindContext(ctx, bson.M{"filename": key})
	if err != nil {
		return false, err
	}
	defer cursor.Close(ctx)
	return cursor.Next(ctx), cursor.Err()
}

// Delete removes every stored revision of key
func (s *GridFSStore) Delete(ctx context.Context, key string) error {
	cursor, err := s.bucket.FindContext(ctx, bson.M{"filename": key})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID interface{} `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrBlobNotFound
	}
	for _, f := range files {
		if err := s.bucket.DeleteContext(ctx, f.ID); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
