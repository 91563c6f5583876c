package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Opérations observables sur Memory (compteurs et pannes injectées)
const (
	OpSelect    = "select"
	OpInsert    = "insert"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpUpload    = "upload"
	OpPublicURL = "public_url"
)

// Memory implémente Tables et Storage en mémoire, pour le développement sans
// backend et pour les tests.
type Memory struct {
	mu      sync.RWMutex
	seq     int
	tables  map[string]map[string]sequenced
	objects map[string][]byte
	baseURL string
	now     func() time.Time

	calls    map[string]int
	failures map[string]error
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		tables:   make(map[string]map[string]sequenced),
		objects:  make(map[string][]byte),
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

var (
	_ Tables  = (*Memory)(nil)
	_ Storage = (*Memory)(nil)
)

// Fail fait échouer toutes les prochaines opérations op ; err nil rétablit
func (m *Memory) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls renvoie le nombre d'appels reçus pour op
func (m *Memory) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// SetClock remplace l'horloge utilisée pour created_at
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// enter compte l'appel et renvoie la panne injectée ; m.mu doit être tenu
func (m *Memory) enter(op string) error {
	m.calls[op]++
	if err := m.failures[op]; err != nil {
		return wrap(op, err)
	}
	return nil
}

func (m *Memory) Select(_ context.Context, collection string, q Query) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpSelect); err != nil {
		return nil, err
	}
	table := m.tables[collection]
	rows := make([]sequenced, 0, len(table))
	for id, r := range table {
		if q.ID != "" && id != q.ID {
			continue
		}
		rows = append(rows, sequenced{row: r.row.clone(), seq: r.seq})
	}
	if q.OrderBy == "" {
		q.OrderBy = ColumnCreatedAt
	}
	return applyQuery(rows, q), nil
}

func (m *Memory) Insert(_ context.Context, collection string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpInsert); err != nil {
		return err
	}
	stored := row.clone()
	id := stored.String(ColumnID)
	if id == "" {
		id = uuid.NewString()
		stored[ColumnID] = id
	}
	if _, ok := stored[ColumnCreatedAt]; !ok {
		stored[ColumnCreatedAt] = m.now().UTC()
	}
	table, ok := m.tables[collection]
	if !ok {
		table = make(map[string]sequenced)
		m.tables[collection] = table
	}
	if _, dup := table[id]; dup {
		return &Error{Op: OpInsert, Message: fmt.Sprintf("duplicate key value violates unique constraint (id=%s)", id)}
	}
	m.seq++
	table[id] = sequenced{row: stored, seq: m.seq}
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpUpdate); err != nil {
		return err
	}
	current, ok := m.tables[collection][id]
	if !ok {
		return &Error{Op: OpUpdate, Message: "no row matches id " + id, Err: ErrNotFound}
	}
	for k, v := range row {
		if k == ColumnID || k == ColumnCreatedAt {
			continue
		}
		current.row[k] = v
	}
	m.tables[collection][id] = current
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpDelete); err != nil {
		return err
	}
	// comme un DELETE … WHERE id = ? : aucune ligne supprimée n'est pas une erreur
	delete(m.tables[collection], id)
	return nil
}

func (m *Memory) Upload(_ context.Context, bucket, path string, r io.Reader, _ int64, _ UploadOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpUpload); err != nil {
		return err
	}
	key := bucket + "/" + path
	if _, exists := m.objects[key]; exists {
		return &Error{Op: OpUpload, Message: "The resource already exists", Err: ErrObjectExists}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return wrap(OpUpload, err)
	}
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *Memory) PublicURL(bucket, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpPublicURL); err != nil {
		return "", err
	}
	if bucket == "" || path == "" {
		return "", &Error{Op: OpPublicURL, Message: "bucket and path are required"}
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", m.baseURL, bucket, strings.TrimLeft(path, "/")), nil
}

// Object renvoie le contenu stocké (tests, diagnostic)
func (m *Memory) Object(bucket, path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[bucket+"/"+path]
	return b, ok
}
