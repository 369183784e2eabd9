package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// TxBuilder builds an atomic transaction from several statements, namespacing
// variables so statements written independently can share a batch.
//
// Example: two statements both using $id get rewritten to $v1_id and $v2_id.
//
// The transaction is batch based: nothing runs until Execute, and then every
// statement succeeds or fails together.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter int
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		vars: make(map[string]interface{}),
	}
}

// Add appends a statement, namespacing its variables
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) *TxBuilder {
	// Longest names first so $plan is not rewritten inside $plan_id
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	tb.varCounter++
	placeholders := make([]string, 0, len(names)*2)
	for _, name := range names {
		namespaced := fmt.Sprintf("v%d_%s", tb.varCounter, name)
		placeholders = append(placeholders, "$"+name, "$"+namespaced)
		tb.vars[namespaced] = vars[name]
	}

	tb.statements = append(tb.statements, strings.NewReplacer(placeholders...).Replace(query))
	return tb
}

// Len returns the number of statements added
func (tb *TxBuilder) Len() int {
	return len(tb.statements)
}

// Build returns the complete transaction query and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// Execute runs the transaction against db
func (tb *TxBuilder) Execute(ctx context.Context, db Database) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}
	return db.Query(ctx, query, vars)
}
