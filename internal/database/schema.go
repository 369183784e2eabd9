package database

import (
	"context"
	"fmt"
)

// schemaStatements define the tables and indexes the repositories rely on.
// Every statement is idempotent.
var schemaStatements = []string{
	`DEFINE TABLE IF NOT EXISTS user SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS user_username ON TABLE user COLUMNS username UNIQUE`,
	`DEFINE INDEX IF NOT EXISTS user_success ON TABLE user COLUMNS is_success`,

	`DEFINE TABLE IF NOT EXISTS lifestyle SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS lifestyle_code ON TABLE lifestyle COLUMNS code UNIQUE`,

	`DEFINE TABLE IF NOT EXISTS activity SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS activity_name ON TABLE activity COLUMNS name UNIQUE`,
	`DEFINE INDEX IF NOT EXISTS activity_lifestyles ON TABLE activity COLUMNS lifestyle_ids`,

	`DEFINE TABLE IF NOT EXISTS activity_plan SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS activity_plan_user ON TABLE activity_plan COLUMNS user UNIQUE`,

	`DEFINE TABLE IF NOT EXISTS planned_activity SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS planned_activity_pair ON TABLE planned_activity COLUMNS plan, activity UNIQUE`,

	`DEFINE TABLE IF NOT EXISTS assessment_result SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS assessment_result_user ON TABLE assessment_result COLUMNS user, submitted_on`,
}

// ApplySchema defines every table and index
func ApplySchema(ctx context.Context, db Database) error {
	for _, stmt := range schemaStatements {
		if err := db.Execute(ctx, stmt, nil); err != nil {
			return fmt.Errorf("apply schema %q: %w", stmt, err)
		}
	}
	return nil
}
