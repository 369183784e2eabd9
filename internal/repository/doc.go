// Package repository is the SurrealDB data access layer for the wellness API.
//
// One repository per aggregate:
//
//   - UserRepository: respondents, their progress counters and the daily reset
//   - ActivityRepository: lifestyles and the activity catalog
//   - PlanRepository: activity plans and their planned_activity entries
//   - ProgressRepository: completion writes, committed in one transaction
//   - AssessmentRepository: immutable assessment results
//
// Lookups return (nil, nil) when the record does not exist; services turn
// that into their own not-found errors. Queries are parameterized and record
// IDs go through type::record so callers may pass either "user:abc" or a
// record ID read back from the database.
//
//	users := NewUserRepository(db)
//	u, err := users.GetByID(ctx, "user:abc123")
//	if err != nil {
//	    return err
//	}
//	if u == nil {
//	    // not found
//	}
//
// Integration tests in this package run against a live database through
// internal/testing/testdb and are skipped when TEST_DB_HOST is unset.
package repository
