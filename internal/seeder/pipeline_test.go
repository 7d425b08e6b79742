package seeder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/heartmarshall/oldenglish-backend/internal/domain"
	"github.com/heartmarshall/oldenglish-backend/internal/seeder/bosworth"
)

// mockRepo records inserts to verify pipeline behavior.
type mockRepo struct {
	lexemes []domain.Lexeme
	defns   []domain.Definition

	insertLexemesErr error
	insertDefnsErr   error

	lexemeBatches int
}

func (m *mockRepo) BulkInsertLexemes(_ context.Context, lexemes []domain.Lexeme) (int, error) {
	if m.insertLexemesErr != nil {
		return 0, m.insertLexemesErr
	}
	m.lexemeBatches++
	m.lexemes = append(m.lexemes, lexemes...)
	return len(lexemes), nil
}

func (m *mockRepo) BulkInsertDefinitions(_ context.Context, defns []domain.Definition) (int, error) {
	if m.insertDefnsErr != nil {
		return 0, m.insertDefnsErr
	}
	m.defns = append(m.defns, defns...)
	return len(defns), nil
}

func (m *mockRepo) CountLexemes(context.Context) (int, error) {
	return len(m.lexemes), nil
}

// mockTx runs the callback directly and records rollbacks (an error from
// the callback counts as a rolled-back transaction).
type mockTx struct {
	began      int
	rolledBack bool
}

func (m *mockTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.began++
	if err := fn(ctx); err != nil {
		m.rolledBack = true
		return err
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestPipelineRun(t *testing.T) {
	repo := &mockRepo{}
	txm := &mockTx{}
	p := NewPipeline(testLogger(), repo, txm, Config{
		TranscriptPath: filepath.Join("testdata", "bt_sample.txt"),
		BatchSize:      1,
	})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Entries != 3 {
		t.Errorf("Entries = %d, want 3", result.Entries)
	}
	if result.Lexemes != 2 || result.InsertedLexemes != 2 {
		t.Errorf("Lexemes = %d inserted %d, want 2/2", result.Lexemes, result.InsertedLexemes)
	}
	if result.Definitions != 3 || result.InsertedDefinitions != 3 {
		t.Errorf("Definitions = %d inserted %d, want 3/3", result.Definitions, result.InsertedDefinitions)
	}
	if txm.began != 1 {
		t.Errorf("transactions = %d, want 1", txm.began)
	}
	if repo.lexemeBatches != 2 {
		t.Errorf("lexeme batches = %d, want 2 with batch size 1", repo.lexemeBatches)
	}

	// Sorted key order: a-berstan before raedan.
	if repo.lexemes[0].Key != "a-berstan" || repo.lexemes[1].Key != "raedan" {
		t.Errorf("lexeme keys = [%s %s], want [a-berstan raedan]", repo.lexemes[0].Key, repo.lexemes[1].Key)
	}

	// The merged lexeme carries both spellings and both entries in order.
	raedan := repo.lexemes[1]
	if len(raedan.Headwords) != 2 {
		t.Errorf("raedan headwords = %q, want 2 spellings", raedan.Headwords)
	}
	var raedanDefns []domain.Definition
	for _, d := range repo.defns {
		if d.LexemeID == raedan.ID {
			raedanDefns = append(raedanDefns, d)
		}
	}
	if len(raedanDefns) != 2 || raedanDefns[0].Position != 0 || raedanDefns[1].Position != 1 {
		t.Errorf("raedan definitions = %+v, want 2 in position order", raedanDefns)
	}
}

func TestPipelineDryRun(t *testing.T) {
	repo := &mockRepo{}
	txm := &mockTx{}
	p := NewPipeline(testLogger(), repo, txm, Config{
		TranscriptPath: filepath.Join("testdata", "bt_sample.txt"),
		DryRun:         true,
	})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Lexemes != 2 {
		t.Errorf("Lexemes = %d, want 2", result.Lexemes)
	}
	if txm.began != 0 || len(repo.lexemes) != 0 {
		t.Error("dry run must not touch the database")
	}
}

func TestPipelineWritesJSON(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "oe_bt.json")
	p := NewPipeline(testLogger(), nil, nil, Config{
		TranscriptPath: filepath.Join("testdata", "bt_sample.txt"),
		OutputJSONPath: outPath,
		DryRun:         true,
	})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var out map[string]struct {
		Headwords []string `json:"headwords"`
		Defns     []string `json:"defns"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d keys, want 2", len(out))
	}

	raedan, ok := out["raedan"]
	if !ok {
		t.Fatal("missing key raedan")
	}
	if len(raedan.Defns) != 2 {
		t.Errorf("raedan defns = %d, want 2", len(raedan.Defns))
	}
	// Entity normalization is applied before storage.
	if raedan.Defns[0] != "<B>rǣdan, raedan</B> <I>to read</I>\nmore of raedan" {
		t.Errorf("raedan defn[0] = %q", raedan.Defns[0])
	}
}

func TestPipelineSegmentationFailureIsAllOrNothing(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "oe_bt.json")
	repo := &mockRepo{}
	txm := &mockTx{}
	p := NewPipeline(testLogger(), repo, txm, Config{
		TranscriptPath: filepath.Join("testdata", "bt_bad.txt"),
		OutputJSONPath: outPath,
	})

	_, err := p.Run(context.Background())

	var segErr *bosworth.SegmentError
	if !errors.As(err, &segErr) {
		t.Fatalf("got err = %v, want *bosworth.SegmentError", err)
	}
	if len(repo.lexemes) != 0 || txm.began != 0 {
		t.Error("failed run must not write to the database")
	}
	if _, err := os.Stat(outPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed run must not produce a JSON file")
	}
}

func TestPipelineInsertFailureRollsBack(t *testing.T) {
	repo := &mockRepo{insertDefnsErr: errors.New("boom")}
	txm := &mockTx{}
	p := NewPipeline(testLogger(), repo, txm, Config{
		TranscriptPath: filepath.Join("testdata", "bt_sample.txt"),
	})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Run should fail when inserts fail")
	}
	if !txm.rolledBack {
		t.Error("failing insert must roll the transaction back")
	}
}

func TestPipelineMissingTranscript(t *testing.T) {
	p := NewPipeline(testLogger(), nil, nil, Config{})
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Run without transcript path should fail")
	}

	p = NewPipeline(testLogger(), nil, nil, Config{TranscriptPath: "testdata/nope.txt"})
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Run with missing transcript file should fail")
	}
}
