package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/oldenglish-backend/internal/domain"
	"github.com/heartmarshall/oldenglish-backend/internal/seeder/bosworth"
)

// Result holds the outcome of one pipeline run.
type Result struct {
	Entries             int // entry blocks segmented from the transcript
	Lexemes             int // canonical keys after grouping
	Definitions         int
	InsertedLexemes     int
	InsertedDefinitions int
	Duration            time.Duration
}

// Pipeline runs the import: segment the transcript, group entries by
// canonical headword, then write the lexicon to the configured sinks.
// Any heuristic violation aborts the whole run before anything is written.
type Pipeline struct {
	log  *slog.Logger
	repo LexiconBulkRepo
	txm  TxRunner
	cfg  Config
}

// NewPipeline creates a new Pipeline. repo and txm may be nil for dry runs
// and JSON-only runs.
func NewPipeline(log *slog.Logger, repo LexiconBulkRepo, txm TxRunner, cfg Config) *Pipeline {
	return &Pipeline{log: log, repo: repo, txm: txm, cfg: cfg}
}

// Run executes the pipeline.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var result Result

	if p.cfg.TranscriptPath == "" {
		return result, fmt.Errorf("transcript path not configured")
	}

	exc, err := bosworth.LoadExceptions(p.cfg.ExceptionsPath)
	if err != nil {
		return result, err
	}

	f, err := os.Open(p.cfg.TranscriptPath)
	if err != nil {
		return result, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	entries, err := bosworth.ReadEntries(f, exc)
	if err != nil {
		return result, err
	}
	result.Entries = len(entries)
	p.log.Info("transcript segmented", slog.Int("entries", len(entries)))

	collected, err := bosworth.CollectEntries(entries, exc)
	if err != nil {
		return result, err
	}
	result.Lexemes = len(collected)

	lexemes, defns := toDomain(collected)
	result.Definitions = len(defns)
	p.log.Info("entries collected",
		slog.Int("lexemes", len(lexemes)),
		slog.Int("definitions", len(defns)),
	)

	if p.cfg.OutputJSONPath != "" {
		if err := writeJSON(p.cfg.OutputJSONPath, collected); err != nil {
			return result, err
		}
		p.log.Info("json written", slog.String("path", p.cfg.OutputJSONPath))
	}

	if p.cfg.DryRun || p.repo == nil {
		result.Duration = time.Since(start)
		p.log.Info("dry run, database untouched", slog.Duration("duration", result.Duration))
		return result, nil
	}

	err = p.txm.RunInTx(ctx, func(ctx context.Context) error {
		inserted, err := batchProcess(lexemes, p.cfg.BatchSize, func(batch []domain.Lexeme) (int, error) {
			return p.repo.BulkInsertLexemes(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("insert lexemes: %w", err)
		}
		result.InsertedLexemes = inserted

		inserted, err = batchProcess(defns, p.cfg.BatchSize, func(batch []domain.Definition) (int, error) {
			return p.repo.BulkInsertDefinitions(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("insert definitions: %w", err)
		}
		result.InsertedDefinitions = inserted
		return nil
	})
	if err != nil {
		return result, err
	}

	total, err := p.repo.CountLexemes(ctx)
	if err != nil {
		p.log.Warn("count lexemes", slog.String("error", err.Error()))
	} else {
		p.log.Info("lexicon stored", slog.Int("total_lexemes", total))
	}

	result.Duration = time.Since(start)
	p.log.Info("pipeline completed",
		slog.Int("lexemes_inserted", result.InsertedLexemes),
		slog.Int("definitions_inserted", result.InsertedDefinitions),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

// toDomain flattens the collected mapping into lexeme and definition rows.
// Keys are processed in sorted order so ids and positions are reproducible
// across runs of the same transcript.
func toDomain(collected map[string]*bosworth.Collected) ([]domain.Lexeme, []domain.Definition) {
	keys := make([]string, 0, len(collected))
	for k := range collected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now()
	lexemes := make([]domain.Lexeme, 0, len(collected))
	var defns []domain.Definition

	for _, key := range keys {
		rec := collected[key]
		lex := domain.Lexeme{
			ID:        uuid.New(),
			Key:       key,
			Headwords: rec.HeadwordList(),
			CreatedAt: now,
		}
		lexemes = append(lexemes, lex)

		for i, html := range rec.Defns {
			defns = append(defns, domain.Definition{
				ID:       uuid.New(),
				LexemeID: lex.ID,
				Position: i,
				HTML:     html,
			})
		}
	}

	return lexemes, defns
}

// jsonRecord is the on-disk shape of one collected lexeme.
type jsonRecord struct {
	Headwords []string `json:"headwords"`
	Defns     []string `json:"defns"`
}

// writeJSON serializes the collected mapping with sorted keys, matching the
// format downstream converters consume.
func writeJSON(path string, collected map[string]*bosworth.Collected) error {
	out := make(map[string]jsonRecord, len(collected))
	for key, rec := range collected {
		out[key] = jsonRecord{Headwords: rec.HeadwordList(), Defns: rec.Defns}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lexicon: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
