package database

// Atomic execution for multi-statement writes.
//
// Transactions here are batch-based: statements collect in memory and are
// joined into a single BEGIN TRANSACTION / COMMIT TRANSACTION query, so
// the whole batch commits or none of it does. There is no interactive
// isolation between Add calls. The default-catalog seed is the primary
// user; it creates every missing activity in one commit so a restart can
// never leave a partially seeded registry behind.

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// AtomicBatch collects statements that must commit together. Fill it from
// a single goroutine, then Execute once.
type AtomicBatch struct {
	stmts []batchStmt
}

type batchStmt struct {
	query string
	vars  map[string]interface{}
}

// NewAtomicBatch returns an empty batch.
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{}
}

// Add queues a statement with its bind variables and returns the batch
// for chaining. Reusing variable names across statements is fine; they
// are renamed apart before execution.
func (b *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	b.stmts = append(b.stmts, batchStmt{query: query, vars: vars})
	return b
}

// Len reports the number of queued statements.
func (b *AtomicBatch) Len() int {
	return len(b.stmts)
}

// Execute commits the batch as one transaction. An empty batch is a
// no-op that never reaches the database.
func (b *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(b.stmts) == 0 {
		return nil
	}

	tb := newTxBuilder()
	for _, s := range b.stmts {
		tb.add(s.query, s.vars)
	}

	query, vars := tb.build()
	_, err := db.Query(ctx, query, vars)
	return err
}

// txBuilder merges statements into one transaction string, renaming bind
// variables so the same name used by different statements (the seed runs
// an identical CREATE per activity) cannot collide.
type txBuilder struct {
	statements []string
	vars       map[string]interface{}
	n          int
}

func newTxBuilder() *txBuilder {
	return &txBuilder{vars: make(map[string]interface{})}
}

func (tb *txBuilder) add(query string, vars map[string]interface{}) {
	// Longest names first, so a variable that is a prefix of another
	// ($max beside $max_participants) is never rewritten inside it.
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		tb.n++
		bound := fmt.Sprintf("v%d_%s", tb.n, name)
		query = strings.ReplaceAll(query, "$"+name, "$"+bound)
		tb.vars[bound] = vars[name]
	}

	tb.statements = append(tb.statements, query)
}

func (tb *txBuilder) build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteByte(';')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}
