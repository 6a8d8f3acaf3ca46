package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/AriAlanPR/image-gallery-saver/shared/db"
	"github.com/caarlos0/env/v9"
	_ "modernc.org/sqlite"
)

// SQLiteConfig locates the media index database
type SQLiteConfig struct {
	Path string `env:"SQLITE_DB_PATH" envDefault:"./gallery.db"`
}

// NewSQLiteConfig reads SQLITE_DB_PATH, defaulting to ./gallery.db
func NewSQLiteConfig() (*SQLiteConfig, error) {
	cfg := &SQLiteConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse sqlite config: %w", err)
	}
	return cfg, nil
}

var _ db.Database = (*SQLiteDB)(nil)

// SQLiteDB implements db.Database on top of modernc.org/sqlite
type SQLiteDB struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	return &SQLiteDB{
		dbPath: cfg.Path,
	}
}

// pragmas are applied to every pooled connection through the DSN
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
	"busy_timeout(5000)",
	"cache_size(-64000)",
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	// writers take the lock up front so concurrent inserts queue on busy_timeout
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// Connect opens the database, creating its directory, and runs migrations
func (s *SQLiteDB) Connect() error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	if dir := filepath.Dir(s.dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn(s.dbPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = conn
	return nil
}

func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return db.ErrNotConnected
	}
	return s.db.PingContext(ctx)
}

// DB returns the underlying *sql.DB, nil until connected
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}
