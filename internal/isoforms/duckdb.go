package isoforms

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Store reads and writes transcript-gene mappings in a DuckDB
// database, for pipelines that keep their Ensembl identifier tables
// queryable rather than as flat files.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the mapping table if it doesn't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS isoforms (
		gene_id VARCHAR,
		transcript_id VARCHAR,
		PRIMARY KEY (transcript_id)
	)`)
	return err
}

// Insert adds one gene/transcript pair.
func (s *Store) Insert(geneID, transcriptID string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO isoforms (gene_id, transcript_id) VALUES (?, ?)`,
		geneID, transcriptID)
	if err != nil {
		return fmt.Errorf("insert isoform %s/%s: %w", geneID, transcriptID, err)
	}
	return nil
}

// Load reads the full mapping table.
func (s *Store) Load() (Map, error) {
	rows, err := s.db.Query(`SELECT gene_id, transcript_id FROM isoforms`)
	if err != nil {
		return nil, fmt.Errorf("query isoforms: %w", err)
	}
	defer rows.Close()

	m := make(Map)
	for rows.Next() {
		var gene, transcript string
		if err := rows.Scan(&gene, &transcript); err != nil {
			return nil, fmt.Errorf("scan isoform row: %w", err)
		}
		m[transcript] = gene
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read isoforms: %w", err)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("no transcript-gene pairs found in %s", s.path)
	}

	return m, nil
}

// LoadDB opens a DuckDB mapping database, loads the full table and
// closes it again.
func LoadDB(path string) (Map, error) {
	s, err := OpenStore(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load()
}
