// Package gateway est le client mince vers le backend hébergé : tables
// (products, reviews) et stockage objet (bucket d'images).
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	CollectionProducts = "products"
	CollectionReviews  = "reviews"

	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
)

// ErrNotFound est renvoyé quand une ligne ou un objet n'existe pas
var ErrNotFound = errors.New("not found")

// ErrObjectExists est renvoyé par Upload quand le chemin est déjà pris (pas d'upsert)
var ErrObjectExists = errors.New("object already exists")

// Row est une ligne brute telle que stockée par le backend
type Row map[string]any

// Query décrit un select : filtre par id, tri sur une colonne horodatée, limite
type Query struct {
	Columns    []string
	ID         string
	OrderBy    string
	Descending bool
	Limit      int
}

// Tables est la capacité "table storage" du backend
type Tables interface {
	Select(ctx context.Context, collection string, q Query) ([]Row, error)
	Insert(ctx context.Context, collection string, row Row) error
	Update(ctx context.Context, collection, id string, row Row) error
	Delete(ctx context.Context, collection, id string) error
}

type UploadOptions struct {
	ContentType  string
	CacheControl string
}

// Storage est la capacité "object storage" du backend
type Storage interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, size int64, opts UploadOptions) error
	PublicURL(bucket, path string) (string, error)
}

// Error porte le message renvoyé par le backend
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return err
	}
	return &Error{Op: op, Message: err.Error(), Err: err}
}

// String lit une colonne texte, "" si absente
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int64 lit une colonne numérique quel que soit le type renvoyé par le driver
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseFloat(v, 64)
		return int64(n)
	default:
		return 0
	}
}

// Time lit une colonne horodatée, zéro si absente ou illisible
func (r Row) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// clone évite que l'appelant modifie la ligne stockée
func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r Row) project(cols []string) Row {
	if len(cols) == 0 || (len(cols) == 1 && cols[0] == "*") {
		return r.clone()
	}
	out := make(Row, len(cols))
	for _, c := range cols {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}
