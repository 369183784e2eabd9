package repository

import (
	"context"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
)

// ProgressRepository records activity completions
type ProgressRepository struct {
	db database.Database
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.Database) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// completionGuard aborts the transaction when the stored counters no longer
// match the ones the completion was computed from
const completionGuard = `
	LET $cur = (SELECT xp, level, day_streak, is_success FROM ONLY type::record($id));
	IF $cur.xp != $xp OR $cur.level != $level OR $cur.day_streak != $day_streak OR $cur.is_success != $is_success {
		THROW "progress write conflict";
	}
`

// RecordCompletion saves the user's new counters and, when the activity is
// part of a plan entry, bumps that entry's success count. Both writes commit
// together, and only if the stored counters still equal before; otherwise
// it returns database.ErrConflict.
func (r *ProgressRepository) RecordCompletion(ctx context.Context, before, user *model.User, entryID string) error {
	tx := database.NewTxBuilder()
	tx.Add(completionGuard, map[string]interface{}{
		"id":         before.ID,
		"xp":         before.XP,
		"level":      before.Level,
		"day_streak": before.DayStreak,
		"is_success": before.IsSuccess,
	})
	tx.Add(progressUpdate(user))
	if entryID != "" {
		tx.Add(`UPDATE type::record($entry) SET success_count += 1`, map[string]interface{}{"entry": entryID})
	}

	_, err := tx.Execute(ctx, r.db)
	return err
}
