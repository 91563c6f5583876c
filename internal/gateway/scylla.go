package gateway

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Scylla implémente Tables sur un keyspace ScyllaDB. Chaque collection est une
// table à clé primaire "id" (text) avec une colonne "created_at".
type Scylla struct {
	session *gocql.Session
	now     func() time.Time
}

func NewScylla(session *gocql.Session) *Scylla {
	return &Scylla{session: session, now: time.Now}
}

var _ Tables = (*Scylla)(nil)

func (s *Scylla) Select(ctx context.Context, collection string, q Query) ([]Row, error) {
	stmt, args, err := buildSelect(collection, q)
	if err != nil {
		return nil, wrap(OpSelect, err)
	}

	iter := s.session.Query(stmt, args...).WithContext(ctx).Iter()
	var rows []sequenced
	for {
		row := map[string]interface{}{}
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, sequenced{row: Row(row), seq: len(rows)})
	}
	if err := iter.Close(); err != nil {
		return nil, wrap(OpSelect, err)
	}

	// Scylla ne trie pas un scan complet : tri et limite côté client
	return applyQuery(rows, Query{Columns: q.Columns, OrderBy: q.OrderBy, Descending: q.Descending, Limit: q.Limit}), nil
}

func (s *Scylla) Insert(ctx context.Context, collection string, row Row) error {
	stored := row.clone()
	if stored.String(ColumnID) == "" {
		stored[ColumnID] = gocql.TimeUUID().String()
	}
	if _, ok := stored[ColumnCreatedAt]; !ok {
		stored[ColumnCreatedAt] = s.now().UTC()
	}
	stmt, args, err := buildInsert(collection, stored)
	if err != nil {
		return wrap(OpInsert, err)
	}
	return wrap(OpInsert, s.session.Query(stmt, args...).WithContext(ctx).Exec())
}

func (s *Scylla) Update(ctx context.Context, collection, id string, row Row) error {
	if !identifier.MatchString(collection) {
		return wrap(OpUpdate, fmt.Errorf("invalid collection %q", collection))
	}
	// un UPDATE CQL est un upsert : on vérifie d'abord que la ligne existe
	var existing string
	err := s.session.Query(fmt.Sprintf("SELECT id FROM %s WHERE id = ?", collection), id).WithContext(ctx).Scan(&existing)
	if errors.Is(err, gocql.ErrNotFound) {
		return &Error{Op: OpUpdate, Message: "no row matches id " + id, Err: ErrNotFound}
	}
	if err != nil {
		return wrap(OpUpdate, err)
	}

	stmt, args, err := buildUpdate(collection, id, row)
	if err != nil {
		return wrap(OpUpdate, err)
	}
	return wrap(OpUpdate, s.session.Query(stmt, args...).WithContext(ctx).Exec())
}

func (s *Scylla) Delete(ctx context.Context, collection, id string) error {
	if !identifier.MatchString(collection) {
		return wrap(OpDelete, fmt.Errorf("invalid collection %q", collection))
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE id = ?", collection)
	return wrap(OpDelete, s.session.Query(stmt, id).WithContext(ctx).Exec())
}

func buildSelect(collection string, q Query) (string, []interface{}, error) {
	if !identifier.MatchString(collection) {
		return "", nil, fmt.Errorf("invalid collection %q", collection)
	}
	cols := "*"
	if len(q.Columns) > 0 && !(len(q.Columns) == 1 && q.Columns[0] == "*") {
		wanted := append([]string(nil), q.Columns...)
		// la colonne de tri doit revenir du scan même si elle n'est pas demandée
		if q.OrderBy != "" && !contains(wanted, q.OrderBy) {
			wanted = append(wanted, q.OrderBy)
		}
		for _, c := range wanted {
			if !identifier.MatchString(c) {
				return "", nil, fmt.Errorf("invalid column %q", c)
			}
		}
		cols = strings.Join(wanted, ", ")
	}

	var b strings.Builder
	var args []interface{}
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, collection)
	if q.ID != "" {
		b.WriteString(" WHERE id = ?")
		args = append(args, q.ID)
	}
	if q.Limit > 0 && q.OrderBy == "" {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), args, nil
}

func buildInsert(collection string, row Row) (string, []interface{}, error) {
	if !identifier.MatchString(collection) {
		return "", nil, fmt.Errorf("invalid collection %q", collection)
	}
	cols := sortedColumns(row)
	args := make([]interface{}, 0, len(cols))
	for _, c := range cols {
		if !identifier.MatchString(c) {
			return "", nil, fmt.Errorf("invalid column %q", c)
		}
		args = append(args, row[c])
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", collection, strings.Join(cols, ", "), placeholders)
	return stmt, args, nil
}

func buildUpdate(collection, id string, row Row) (string, []interface{}, error) {
	if !identifier.MatchString(collection) {
		return "", nil, fmt.Errorf("invalid collection %q", collection)
	}
	var sets []string
	var args []interface{}
	for _, c := range sortedColumns(row) {
		if c == ColumnID || c == ColumnCreatedAt {
			continue
		}
		if !identifier.MatchString(c) {
			return "", nil, fmt.Errorf("invalid column %q", c)
		}
		sets = append(sets, c+" = ?")
		args = append(args, row[c])
	}
	if len(sets) == 0 {
		return "", nil, errors.New("nothing to update")
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", collection, strings.Join(sets, ", ")), args, nil
}

func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
