// Package registry persists the release-group dictionary in SQLite. Groups
// learned from filenames (auto_add) accumulate across runs, so a group seen
// once at regex confidence is recognized at dictionary confidence forever
// after.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/Nomadcxx/sportwatch/internal/dictionary"
	"github.com/Nomadcxx/sportwatch/internal/paths"
)

// Source records how a group entered the registry.
const (
	SourceSeed   = "seed"
	SourceAuto   = "auto"
	SourceManual = "manual"
)

// Registry is the release-group store. Writes are serialized through a
// single mutex; reads go straight to the database.
type Registry struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the registry at the default location.
func Open() (*Registry, error) {
	dbPath, err := paths.RegistryPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry path: %w", err)
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the registry at a specific path.
func OpenPath(path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	// WAL mode for better concurrent access
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping registry: %w", err)
	}

	r := &Registry{db: db, path: path}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate registry: %w", err)
	}
	return r, nil
}

// OpenInMemory opens an in-memory registry for testing.
func OpenInMemory() (*Registry, error) {
	db, err := sql.Open("sqlite", ":memory:?_cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory registry: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping in-memory registry: %w", err)
	}

	r := &Registry{db: db, path: ":memory:"}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate in-memory registry: %w", err)
	}
	return r, nil
}

// Close closes the registry database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Path returns the filesystem path to the registry database.
func (r *Registry) Path() string {
	return r.path
}

func (r *Registry) migrate() error {
	return applyMigrations(r.db)
}

// Append registers a group. Registering an existing group (any casing) is a
// no-op, so repeated runs over the same files converge instead of piling up
// duplicates.
func (r *Registry) Append(ctx context.Context, name, source string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("registry: empty group name")
	}
	if source == "" {
		source = SourceManual
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO release_groups (name, name_lower, source) VALUES (?, ?, ?)`,
		name, strings.ToLower(name), source)
	if err != nil {
		return fmt.Errorf("registry append %q: %w", name, err)
	}
	return nil
}

// AppendAll registers every name, ignoring empties. Used to seed from config.
func (r *Registry) AppendAll(ctx context.Context, names []string, source string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := r.Append(ctx, name, source); err != nil {
			return err
		}
	}
	return nil
}

// Lookup finds a group by exact case-insensitive name and returns its
// registered spelling.
func (r *Registry) Lookup(ctx context.Context, name string) (string, bool, error) {
	var canonical string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM release_groups WHERE name_lower = ?`,
		strings.ToLower(strings.TrimSpace(name))).Scan(&canonical)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("registry lookup %q: %w", name, err)
	}
	return canonical, true, nil
}

// Remove deletes a group by case-insensitive name.
func (r *Registry) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM release_groups WHERE name_lower = ?`,
		strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return fmt.Errorf("registry remove %q: %w", name, err)
	}
	return nil
}

// Names returns every registered group, alphabetically.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM release_groups ORDER BY name_lower`)
	if err != nil {
		return nil, fmt.Errorf("registry names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the number of registered groups.
func (r *Registry) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM release_groups`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("registry count: %w", err)
	}
	return n, nil
}

// Table snapshots the registry as a dictionary table for substring matching
// against filenames.
func (r *Registry) Table(ctx context.Context) (dictionary.Table, error) {
	names, err := r.Names(ctx)
	if err != nil {
		return nil, err
	}
	table := make(dictionary.Table, 0, len(names))
	for _, name := range names {
		table = append(table, dictionary.Entry{Canonical: name})
	}
	return table, nil
}
