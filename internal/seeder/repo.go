// Package seeder orchestrates the Bosworth–Toller import: transcript in,
// reconstructed lexicon out (Postgres and/or JSON).
package seeder

import (
	"context"

	"github.com/heartmarshall/oldenglish-backend/internal/domain"
)

// LexiconBulkRepo defines the batch repository contract consumed by the
// pipeline. All methods use only domain types — no adapter imports.
// Implemented by lexeme.Repo.
type LexiconBulkRepo interface {
	// Batch inserts — ON CONFLICT DO NOTHING.
	BulkInsertLexemes(ctx context.Context, lexemes []domain.Lexeme) (int, error)
	BulkInsertDefinitions(ctx context.Context, defns []domain.Definition) (int, error)

	// CountLexemes reports how many lexemes are stored, for post-run sanity logs.
	CountLexemes(ctx context.Context) (int, error)
}

// TxRunner executes a function inside one database transaction. The import
// is all-or-nothing: a failing run must leave the lexicon tables untouched.
// Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
