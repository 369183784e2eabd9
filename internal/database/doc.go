// Package database provides SurrealDB connectivity for the Wellness API.
//
// The Database interface offers three query methods:
//   - Query: one {status, result} entry per statement
//   - QueryOne: the first record of the first statement
//   - Execute: no return value, for mutations
//
// Multi-statement writes go through TxBuilder, which wraps them in
// BEGIN/COMMIT TRANSACTION and namespaces their variables:
//
//	tx := database.NewTxBuilder()
//	tx.Add("UPDATE $id SET xp = $xp", map[string]interface{}{"id": userID, "xp": 40})
//	tx.Add("UPDATE $id SET success_count += 1", map[string]interface{}{"id": entryID})
//	_, err := tx.Execute(ctx, db)
//
// Use errors.Is() against ErrNotFound, ErrDuplicate, ErrConnection and ErrQuery.
package database
