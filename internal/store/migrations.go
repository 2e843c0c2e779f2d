package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Detections table - one row per confirmed gesture detection
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			gesture TEXT NOT NULL,
			confidence REAL NOT NULL,
			translation TEXT NOT NULL DEFAULT '',
			model_kind TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_detections_created_at ON detections(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_gesture ON detections(gesture)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
