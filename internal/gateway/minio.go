package gateway

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
)

// MinIO implémente Storage sur un serveur compatible S3. Le bucket doit
// autoriser la lecture anonyme pour que les URLs publiques soient servies.
type MinIO struct {
	client *minio.Client
}

func NewMinIO(client *minio.Client) *MinIO {
	return &MinIO{client: client}
}

var _ Storage = (*MinIO)(nil)

func (m *MinIO) Upload(ctx context.Context, bucket, path string, r io.Reader, size int64, opts UploadOptions) error {
	// pas d'upsert : un objet déjà présent au même chemin est une erreur
	_, err := m.client.StatObject(ctx, bucket, path, minio.StatObjectOptions{})
	if err == nil {
		return &Error{Op: OpUpload, Message: "The resource already exists", Err: ErrObjectExists}
	}
	if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" {
		return wrap(OpUpload, err)
	}

	_, err = m.client.PutObject(ctx, bucket, path, r, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		CacheControl: opts.CacheControl,
	})
	return wrap(OpUpload, err)
}

func (m *MinIO) PublicURL(bucket, path string) (string, error) {
	if bucket == "" || path == "" {
		return "", &Error{Op: OpPublicURL, Message: "bucket and path are required"}
	}
	endpoint := m.client.EndpointURL()
	u := url.URL{
		Scheme: endpoint.Scheme,
		Host:   endpoint.Host,
		Path:   "/" + bucket + "/" + strings.TrimLeft(path, "/"),
	}
	return u.String(), nil
}
