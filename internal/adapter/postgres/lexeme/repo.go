// Package lexeme implements the reconstructed-lexicon repository using
// PostgreSQL. It manages two tables (bt_lexemes, bt_definitions) as a single
// aggregate. The lexicon is immutable once imported: no Update/Delete
// operations are exposed.
package lexeme

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/oldenglish-backend/internal/adapter/postgres"
	"github.com/heartmarshall/oldenglish-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides lexicon persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lexicon repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Batch insert methods (pgx.Batch API)
// ---------------------------------------------------------------------------

// BulkInsertLexemes inserts bt_lexemes using pgx.Batch. Existing lexemes
// (by key) are skipped via ON CONFLICT DO NOTHING.
// Returns the number of actually inserted rows.
func (r *Repo) BulkInsertLexemes(ctx context.Context, lexemes []domain.Lexeme) (int, error) {
	if len(lexemes) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, l := range lexemes {
		batch.Queue(
			`INSERT INTO bt_lexemes (id, key, headwords, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (key) DO NOTHING`,
			l.ID, l.Key, l.Headwords, l.CreatedAt,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// BulkInsertDefinitions inserts bt_definitions using pgx.Batch.
// Existing definitions (by lexeme and position) are skipped via
// ON CONFLICT DO NOTHING.
func (r *Repo) BulkInsertDefinitions(ctx context.Context, defns []domain.Definition) (int, error) {
	if len(defns) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, d := range defns {
		batch.Queue(
			`INSERT INTO bt_definitions (id, lexeme_id, position, html)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (lexeme_id, position) DO NOTHING`,
			d.ID, d.LexemeID, d.Position, d.HTML,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByKey returns the lexeme stored under a canonical key together with its
// definitions in position order. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByKey(ctx context.Context, key string) (*domain.Lexeme, []domain.Definition, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.
		Select("id", "key", "headwords", "created_at").
		From("bt_lexemes").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build lexeme query: %w", err)
	}

	var lex domain.Lexeme
	if err := q.QueryRow(ctx, sql, args...).
		Scan(&lex.ID, &lex.Key, &lex.Headwords, &lex.CreatedAt); err != nil {
		return nil, nil, postgres.MapError(err, "lexeme", key)
	}

	sql, args, err = psql.
		Select("id", "lexeme_id", "position", "html").
		From("bt_definitions").
		Where(squirrel.Eq{"lexeme_id": lex.ID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build definitions query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, postgres.MapError(err, "definitions", key)
	}
	defer rows.Close()

	var defns []domain.Definition
	for rows.Next() {
		var d domain.Definition
		if err := rows.Scan(&d.ID, &d.LexemeID, &d.Position, &d.HTML); err != nil {
			return nil, nil, postgres.MapError(err, "definitions", key)
		}
		defns = append(defns, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, postgres.MapError(err, "definitions", key)
	}

	return &lex, defns, nil
}

// SearchByHeadword returns lexemes that list the given spelling among their
// headword variants, ordered by key.
func (r *Repo) SearchByHeadword(ctx context.Context, headword string, limit int) ([]domain.Lexeme, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := psql.
		Select("id", "key", "headwords", "created_at").
		From("bt_lexemes").
		Where("? = ANY(headwords)", headword).
		OrderBy("key")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "lexeme search", headword)
	}
	defer rows.Close()

	var lexemes []domain.Lexeme
	for rows.Next() {
		var lex domain.Lexeme
		if err := rows.Scan(&lex.ID, &lex.Key, &lex.Headwords, &lex.CreatedAt); err != nil {
			return nil, postgres.MapError(err, "lexeme search", headword)
		}
		lexemes = append(lexemes, lex)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "lexeme search", headword)
	}

	return lexemes, nil
}

// CountLexemes reports how many lexemes are stored.
func (r *Repo) CountLexemes(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM bt_lexemes`).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "lexeme", "count")
	}
	return count, nil
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
