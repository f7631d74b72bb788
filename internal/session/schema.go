package session

import "database/sql"

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	return withTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS session (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				token TEXT,
				profile TEXT,
				updated_at INTEGER NOT NULL
			);
		`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
		return err
	})
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
