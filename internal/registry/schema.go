package registry

import "database/sql"

type migration struct {
	version int
	up      []string
}

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,

			`CREATE TABLE release_groups (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				name_lower TEXT NOT NULL UNIQUE,
				source TEXT NOT NULL DEFAULT 'manual',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,

			`CREATE INDEX idx_release_groups_lower ON release_groups(name_lower)`,

			`INSERT INTO schema_version (version) VALUES (1)`,
		},
	},
}

// applyMigrations applies any pending schema migrations
func applyMigrations(db *sql.DB) error {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		// schema_version doesn't exist yet - this is a fresh database
		currentVersion = 0
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}

		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return err
			}
		}

		// Each migration inserts its own schema_version row.
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
