package storage

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store owns the durable user set. All mutations go through single
// statements; mu serializes read-modify-write sequences so concurrent
// updates cannot interleave.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to connect to database: %w", err)
	}

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"username" TEXT NOT NULL UNIQUE,
			"password_hash" TEXT NOT NULL,
			"percentage" REAL,
			"interest" TEXT,
			"extracurriculars" TEXT NOT NULL DEFAULT '[]',
			"extra_info" TEXT NOT NULL DEFAULT ''
	);`

	if _, err := db.Exec(createUsersTable); err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to create users table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
