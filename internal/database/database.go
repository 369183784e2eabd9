package database

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors, checked with errors.Is
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record") // unique index violation
	ErrConnection = errors.New("database connection error")
	ErrQuery      = errors.New("query error")
	ErrConflict   = errors.New("write conflict") // stale read or transaction clash
)

// Database defines the interface for database operations
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns one {status, result} entry per statement
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns the first record of the first statement
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host           string
	Port           string
	User           string
	Password       string
	Namespace      string
	Database       string
	Secure         bool          // use wss instead of ws
	ConnectTimeout time.Duration // bounds Connect; 0 means 10s
}
