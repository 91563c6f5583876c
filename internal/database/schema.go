package database

import (
	"fmt"
	"regexp"

	"github.com/gocql/gocql"
)

var keyspaceName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var tableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id text PRIMARY KEY,
		name text,
		description text,
		price bigint,
		image text,
		category text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id text PRIMARY KEY,
		first_name text,
		last_name text,
		comment text,
		rating int,
		image text,
		date text,
		created_at timestamp
	)`,
}

// EnsureKeyspace crée le keyspace s'il n'existe pas (réplication simple)
func EnsureKeyspace(session *gocql.Session, keyspace string) error {
	if !keyspaceName.MatchString(keyspace) {
		return fmt.Errorf("nom de keyspace invalide: %q", keyspace)
	}
	stmt := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`, keyspace)
	if err := session.Query(stmt).Exec(); err != nil {
		return fmt.Errorf("échec création keyspace %s: %w", keyspace, err)
	}
	return nil
}

// EnsureTables crée les tables products et reviews
func EnsureTables(session *gocql.Session) error {
	for _, ddl := range tableDefinitions {
		if err := session.Query(ddl).Exec(); err != nil {
			return fmt.Errorf("échec création table: %w", err)
		}
	}
	return nil
}
