// The integration tests that use this package need a running SurrealDB:
//
//	TEST_DB_HOST=localhost TEST_DB_PORT=8000 go test ./internal/repository/...
//
// TEST_DB_USER and TEST_DB_PASSWORD default to root. Without TEST_DB_HOST
// those tests are skipped.
package testdb
