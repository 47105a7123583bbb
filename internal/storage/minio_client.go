package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"recycleways/internal/config"
	"recycleways/internal/models"
)

type Storage interface {
	UploadImage(ctx context.Context, file io.Reader, size int64) (string, error)
	DeleteImage(ctx context.Context, imageURL string) error
}

var _ Storage = (*MinIOClient)(nil)

// objectClient is the subset of *minio.Client used here.
type objectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinIOClient struct {
	client    objectClient
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create MinIO client: %w", err)
	}

	return newMinIOClient(client, cfg.MinIO.BucketName, cfg.MinIO.PublicURL), nil
}

func newMinIOClient(client objectClient, bucket, publicURL string) *MinIOClient {
	if publicURL != "" && !strings.HasSuffix(publicURL, "/") {
		publicURL += "/"
	}
	return &MinIOClient{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		now:       time.Now,
	}
}

// UploadImage stores the image as <unix-ms><ext> and returns its public URL.
// The content type is sniffed from the first bytes of the upload.
func (m *MinIOClient) UploadImage(ctx context.Context, file io.Reader, size int64) (string, error) {
	mtype, body, err := DetectContentType(file)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", models.NewValidationError(fmt.Sprintf("unsupported content type %s", mtype.String()), nil)
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("%d%s", m.now().UnixMilli(), ext)

	_, err = m.client.PutObject(ctx, m.bucket, objectName, body, size, minio.PutObjectOptions{
		ContentType: mtype.String(),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload image: %w", err)
	}

	return m.publicURL + url.PathEscape(objectName), nil
}

// DeleteImage removes the object behind a public image URL. URLs outside the
// bucket's public prefix are ignored.
func (m *MinIOClient) DeleteImage(ctx context.Context, imageURL string) error {
	objectName := ObjectNameFromURL(m.publicURL, imageURL)
	if objectName == "" {
		return nil
	}

	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("could not delete image %s: %w", objectName, err)
	}
	return nil
}

// ObjectNameFromURL returns the URL-decoded bucket path of imageURL, or ""
// when imageURL does not live under publicURL.
func ObjectNameFromURL(publicURL, imageURL string) string {
	if publicURL == "" {
		return ""
	}
	rest, ok := strings.CutPrefix(imageURL, publicURL)
	if !ok || rest == "" {
		return ""
	}
	decoded, err := url.PathUnescape(rest)
	if err != nil {
		return ""
	}
	return decoded
}

// DetectContentType sniffs the MIME type of r and returns a reader that
// still yields the full content.
func DetectContentType(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	header := make([]byte, 3072)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, fmt.Errorf("could not read upload: %w", err)
	}
	header = header[:n]

	return mimetype.Detect(header), io.MultiReader(bytes.NewReader(header), r), nil
}
