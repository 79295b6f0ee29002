package storage

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Store provides keyed persistence for student profiles, opportunity
// assignments and feedback on top of a SQLite database.
type Store struct {
	DB *sql.DB
}

// Open opens a SQLite DB and enables foreign keys.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS students (
	user_id TEXT PRIMARY KEY,
	name TEXT,
	email TEXT,
	skills TEXT,
	career_interest TEXT,
	cv_text TEXT
);

CREATE TABLE IF NOT EXISTS opportunities (
	opportunity_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	title TEXT,
	company TEXT,
	job_type TEXT,
	application_deadline TEXT,
	description TEXT,
	url TEXT,
	wage TEXT,
	home_office TEXT,
	benefits TEXT,
	formal_requirements TEXT,
	technical_requirements TEXT,
	contact_person TEXT
);

CREATE TABLE IF NOT EXISTS feedback (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	feedback_text TEXT,
	stars INTEGER
);
`)
	return err
}
