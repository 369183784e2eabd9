package database

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/surrealdb/surrealdb.go"
)

const defaultConnectTimeout = 10 * time.Second

// SurrealDB implements Database over a SurrealDB websocket connection. The
// health check may Ping while shutdown Closes, so the handle is guarded.
type SurrealDB struct {
	mu     sync.RWMutex
	db     *surrealdb.DB
	config Config
}

// NewSurrealDB creates a SurrealDB client. Call Connect before querying.
func NewSurrealDB(cfg Config) *SurrealDB {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return &SurrealDB{config: cfg}
}

// Endpoint is the websocket URL Connect dials
func (s *SurrealDB) Endpoint() string {
	scheme := "ws"
	if s.config.Secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: net.JoinHostPort(s.config.Host, s.config.Port)}
	return u.String()
}

// Connect dials, signs in and selects the namespace and database
func (s *SurrealDB) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ConnectTimeout)
	defer cancel()

	db, err := surrealdb.FromEndpointURLString(ctx, s.Endpoint())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if _, err := db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	}); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use %s/%s failed: %v", ErrConnection, s.config.Namespace, s.config.Database, err)
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	slog.Debug("surrealdb connected",
		slog.String("endpoint", s.Endpoint()),
		slog.String("namespace", s.config.Namespace),
	)
	return nil
}

// Close closes the connection. Calling it twice is harmless.
func (s *SurrealDB) Close() error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close(context.Background())
}

func (s *SurrealDB) handle() (*surrealdb.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrConnection
	}
	return s.db, nil
}

// Ping asks the server for its version
func (s *SurrealDB) Ping(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if _, err := db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs every statement in query and returns one {status, result} map
// per statement. The first failed statement becomes the error.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	results, err := surrealdb.Query[interface{}](ctx, db, query, vars)
	if err != nil {
		return nil, classify(err.Error())
	}
	if results == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*results))
	for i, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("statement %d: %w", i+1, classify(r.Error.Message))
			}
			return nil, fmt.Errorf("statement %d: %w", i+1, ErrQuery)
		}
		output = append(output, map[string]interface{}{
			"status": r.Status,
			"result": r.Result,
		})
	}
	return output, nil
}

// QueryOne returns the first record of the first statement
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return FirstRecord(results)
}

// Execute runs a query and discards its results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

// FirstRecord unwraps the first record from a Query response. Empty or nil
// results are ErrNotFound.
func FirstRecord(results []interface{}) (interface{}, error) {
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok || resp["status"] != "OK" {
		return results[0], nil
	}

	switch data := resp["result"].(type) {
	case nil:
		return nil, ErrNotFound
	case []interface{}:
		if len(data) == 0 {
			return nil, ErrNotFound
		}
		return data[0], nil
	default:
		return data, nil
	}
}

// classify maps a SurrealDB error message onto the package sentinels.
// Unique index violations read "already contains"; record ID clashes read
// "already exists". Transaction clashes and guarded writes read "conflict".
func classify(msg string) error {
	switch {
	case strings.Contains(msg, "already contains"), strings.Contains(msg, "already exists"):
		return fmt.Errorf("%w: %s", ErrDuplicate, msg)
	case strings.Contains(msg, "conflict"):
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	return fmt.Errorf("%w: %s", ErrQuery, msg)
}
