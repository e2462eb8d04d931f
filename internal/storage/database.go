package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	// Enable foreign keys (disabled by default in SQLite) through the DSN so
	// every pooled connection enforces them. The document_content cascade
	// depends on this.
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS main_table (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			upload_date DATE NOT NULL,
			filepath TEXT NOT NULL UNIQUE,
			title TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS document_content (
			id INTEGER PRIMARY KEY,
			content TEXT NOT NULL,
			summary TEXT,
			buzzwords TEXT,
			FOREIGN KEY (id) REFERENCES main_table(id) ON DELETE CASCADE
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
