// Package images récupère l'image d'un formulaire : upload dans le bucket et
// URL publique si possible, sinon data URL en ligne.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"regexp"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"crochet_storefront/internal/gateway"
)

const (
	UploadPrefix = "products"
	CacheControl = "max-age=3600"
)

var whitespace = regexp.MustCompile(`\s+`)

// File est le fichier choisi dans le formulaire
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
	Size        int64
}

// FieldWriter reçoit la valeur à placer dans le champ cible du formulaire
type FieldWriter interface {
	SetField(field, value string)
}

type Acquirer struct {
	storage gateway.Storage
	bucket  string
	now     func() time.Time
}

// NewAcquirer : bucket vide (ou storage nil) désactive l'upload
func NewAcquirer(storage gateway.Storage, bucket string) *Acquirer {
	return &Acquirer{storage: storage, bucket: bucket, now: time.Now}
}

// ObjectPath : products/{millis}_{nom sans espaces}
func ObjectPath(name string, at time.Time) string {
	return fmt.Sprintf("%s/%d_%s", UploadPrefix, at.UnixMilli(), whitespace.ReplaceAllString(name, "_"))
}

// Acquire écrit exactement une valeur dans field : l'URL publique de l'upload
// s'il réussit, sinon la data URL. Un échec d'upload est journalisé, jamais
// renvoyé.
func (a *Acquirer) Acquire(ctx context.Context, f File, field string, w FieldWriter) (string, error) {
	content, err := io.ReadAll(f.Content)
	if err != nil {
		return "", fmt.Errorf("lecture du fichier %s: %w", f.Name, err)
	}

	if a.bucket != "" && a.storage != nil {
		if url, ok := a.upload(ctx, f, content); ok {
			w.SetField(field, url)
			return url, nil
		}
	}

	dataURL := DataURL(content, f.ContentType)
	w.SetField(field, dataURL)
	return dataURL, nil
}

func (a *Acquirer) upload(ctx context.Context, f File, content []byte) (string, bool) {
	path := ObjectPath(f.Name, a.now())
	contentType := f.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(content).String()
	}

	err := a.storage.Upload(ctx, a.bucket, path, bytes.NewReader(content), int64(len(content)), gateway.UploadOptions{
		ContentType:  contentType,
		CacheControl: CacheControl,
	})
	if err != nil {
		log.Printf("❌ Erreur upload %s: %v", path, err)
		return "", false
	}

	url, err := a.storage.PublicURL(a.bucket, path)
	if err != nil || url == "" {
		log.Printf("❌ URL publique introuvable pour %s: %v", path, err)
		return "", false
	}
	log.Printf("🖼️ Image uploadée: %s", path)
	return url, true
}

// DataURL encode le contenu en data:{mime};base64,… (mime détecté si absent)
func DataURL(content []byte, contentType string) string {
	if contentType == "" {
		contentType = mimetype.Detect(content).String()
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(content)
}
