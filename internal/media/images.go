package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/config"
)

// Card image bounds. Uploads are fitted inside this box, keeping aspect ratio.
const (
	MaxWidth    = 600
	MaxHeight   = 400
	jpegQuality = 85
	keyPrefix   = "recipes"
)

// ErrInvalidImage is returned when the upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// IImageStore defines the interface for recipe image uploads
type IImageStore interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
}

// Uploader is the part of the S3 client used here.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStore resizes recipe pictures and stores them in S3.
type ImageStore struct {
	uploader Uploader
	objects  *config.S3Config
	log      logrus.FieldLogger
}

// NewImageStore creates a new ImageStore instance from the S3 settings
func NewImageStore(cfg *config.S3Config, log logrus.FieldLogger) *ImageStore {
	return NewImageStoreWithUploader(cfg.Client, cfg.BucketName, cfg.PublicBaseURL, log)
}

// NewImageStoreWithUploader creates an ImageStore over any PutObject implementation.
func NewImageStoreWithUploader(uploader Uploader, bucket, baseURL string, log logrus.FieldLogger) *ImageStore {
	return &ImageStore{
		uploader: uploader,
		objects: &config.S3Config{
			BucketName:    bucket,
			PublicBaseURL: strings.TrimRight(baseURL, "/"),
		},
		log: log.WithField("component", "media"),
	}
}

// Upload decodes r, fits it into MaxWidth x MaxHeight, re-encodes it as JPEG
// and returns the public URL of the stored object.
func (s *ImageStore) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	fitted := imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	key := path.Join(keyPrefix, uuid.NewString()+".jpg")
	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.objects.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
		Metadata:    map[string]string{"original-name": path.Base(filename)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.objects.ObjectURL(key)
	s.log.WithFields(logrus.Fields{
		"key":    key,
		"width":  fitted.Bounds().Dx(),
		"height": fitted.Bounds().Dy(),
	}).Info("image uploaded")
	return url, nil
}
