package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/metrics"
	"github.com/anonto42/foodgram/backend/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageSize is the largest decoded upload accepted, in bytes.
const MaxImageSize = 3 << 20

const (
	dataURIPrefix   = "data:image"
	base64Separator = ";base64,"

	reasonBadFormat = "bad base64 format"
	reasonTooLarge  = "image too large"
	reasonNotImage  = "not an image"
	reasonUnknown   = "unknown image reference"
)

// ImageInput is either an InlineImage to validate or a StoredImage already
// held by the blob store.
type ImageInput interface {
	imageInput()
}

// InlineImage is a base64 data URI split into its media type and payload.
type InlineImage struct {
	MediaType string // e.g. "image/png"
	Payload   string
}

// StoredImage references a blob that was uploaded earlier.
type StoredImage struct {
	Key string
}

func (InlineImage) imageInput() {}
func (StoredImage) imageInput() {}

// StoredBlobRef binds a generated file name to validated image bytes.
type StoredBlobRef struct {
	Name        string
	Data        []byte
	ContentType string
}

// ParseImageInput classifies a raw request value. Values beginning with
// "data:image" are inline uploads and must carry a ";base64," separator;
// anything else is treated as a stored key (or a media URL for one).
func ParseImageInput(raw string) (ImageInput, error) {
	if !strings.HasPrefix(raw, dataURIPrefix) {
		return StoredImage{Key: mediaKey(raw)}, nil
	}
	parts := strings.Split(raw, base64Separator)
	if len(parts) != 2 {
		return nil, apperrors.NewValidationError(reasonBadFormat)
	}
	return InlineImage{MediaType: strings.TrimPrefix(parts[0], "data:"), Payload: parts[1]}, nil
}

// IngestInline validates an inline image and names it. Checks run cheapest
// first: media type, encoded length, base64, decoded size, then a full image
// decode.
func IngestInline(in InlineImage) (*StoredBlobRef, error) {
	ext, err := extension(in.MediaType)
	if err != nil {
		return nil, err
	}

	if base64.StdEncoding.DecodedLen(len(in.Payload)) > MaxImageSize+2 {
		return nil, apperrors.NewValidationError(reasonTooLarge)
	}
	data, err := base64.StdEncoding.DecodeString(in.Payload)
	if err != nil {
		return nil, apperrors.NewValidationError(reasonBadFormat)
	}
	if len(data) > MaxImageSize {
		return nil, apperrors.NewValidationError(reasonTooLarge)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return nil, apperrors.NewValidationError(reasonNotImage)
	}

	return &StoredBlobRef{
		Name:        uuid.NewString() + "." + ext,
		Data:        data,
		ContentType: mimetype.Detect(data).String(),
	}, nil
}

func extension(mediaType string) (string, error) {
	i := strings.Index(mediaType, "/")
	if i < 0 || i == len(mediaType)-1 {
		return "", apperrors.NewValidationError(reasonBadFormat)
	}
	ext := strings.ToLower(mediaType[i+1:])
	if ext == "jpeg" {
		ext = "jpg"
	}
	return ext, nil
}

// mediaKey strips a media URL down to its blob key
func mediaKey(raw string) string {
	if i := strings.Index(raw, "/media/"); i >= 0 {
		return raw[i+len("/media/"):]
	}
	return strings.TrimPrefix(raw, "/")
}

// ImageService runs uploads through the ingestion pipeline and persists them
type ImageService struct {
	store storage.BlobStore
}

// NewImageService creates a new ImageService
func NewImageService(store storage.BlobStore) *ImageService {
	return &ImageService{store: store}
}

// Save resolves raw to a blob key under folder. Inline uploads are validated
// and stored. A stored reference is accepted only when it names current, the
// key the record already holds, so one record can never adopt another's blob.
func (s *ImageService) Save(ctx context.Context, raw, folder, current string) (string, error) {
	input, err := ParseImageInput(raw)
	if err != nil {
		metrics.ImageIngestions.WithLabelValues("rejected").Inc()
		return "", err
	}

	switch in := input.(type) {
	case StoredImage:
		ok := false
		if in.Key != "" && in.Key == current {
			if ok, err = s.store.Exists(ctx, in.Key); err != nil {
				return "", err
			}
		}
		if !ok {
			metrics.ImageIngestions.WithLabelValues("rejected").Inc()
			return "", apperrors.NewValidationError(reasonUnknown)
		}
		metrics.ImageIngestions.WithLabelValues("passthrough").Inc()
		return in.Key, nil

	case InlineImage:
		ref, err := IngestInline(in)
		if err != nil {
			metrics.ImageIngestions.WithLabelValues("rejected").Inc()
			return "", err
		}
		key := path.Join(folder, ref.Name)
		if err := s.store.Put(ctx, key, ref.Data, ref.ContentType); err != nil {
			return "", err
		}
		metrics.ImageIngestions.WithLabelValues("stored").Inc()
		metrics.ImageBytes.Observe(float64(len(ref.Data)))
		return key, nil
	}
	return "", apperrors.NewValidationError(reasonBadFormat)
}

// Delete removes a stored image; missing blobs are not an error
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		return err
	}
	return nil
}

// Open returns a stored image for serving
func (s *ImageService) Open(ctx context.Context, key string) (*storage.Blob, error) {
	return s.store.Open(ctx, key)
}
