package db

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotConnected = errors.New("database not connected")

// Database owns the connection pool behind the media index
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
	// Ping reports whether the pool can still reach the database
	Ping(ctx context.Context) error
}
