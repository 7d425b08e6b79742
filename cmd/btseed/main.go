// Command btseed rebuilds the Old English lexicon from a flat OCR
// transcript of the Bosworth-Toller dictionary. It segments the
// transcript into entries, extracts headwords, groups entries under
// normalized lookup keys, and writes the result to PostgreSQL and/or
// a JSON snapshot. It is intended to be run offline, not as part of
// the main server.
//
// Flags:
//
//	--dry-run        parse the transcript without writing to DB
//	--migrate        apply pending schema migrations before seeding
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/oldenglish-backend/internal/adapter/postgres"
	"github.com/heartmarshall/oldenglish-backend/internal/adapter/postgres/lexeme"
	"github.com/heartmarshall/oldenglish-backend/internal/app"
	"github.com/heartmarshall/oldenglish-backend/internal/config"
	"github.com/heartmarshall/oldenglish-backend/internal/seeder"
)

// Compile-time interface assertions.
var (
	_ seeder.LexiconBulkRepo = (*lexeme.Repo)(nil)
	_ seeder.TxRunner        = (*postgres.TxManager)(nil)
)

func main() {
	dryRunFlag := flag.Bool("dry-run", false, "parse the transcript without writing to DB")
	migrateFlag := flag.Bool("migrate", false, "apply pending schema migrations before seeding")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	logCfg, err := config.LoadLog()
	if err != nil {
		log.Fatalf("load log config: %v", err)
	}
	logger := app.NewLogger(logCfg)

	// Load seeder config.
	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *dryRunFlag {
		seederCfg.DryRun = true
	}

	// 30-minute context timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var (
		repo seeder.LexiconBulkRepo
		txm  seeder.TxRunner
	)
	if !seederCfg.DryRun {
		// The full app config (with its required database settings) is only
		// needed when the DB sink is in play.
		appCfg, err := config.Load()
		if err != nil {
			logger.Error("load app config", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pool, err := postgres.NewPool(ctx, appCfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		if *migrateFlag {
			if err := postgres.Migrate(ctx, appCfg.Database.DSN); err != nil {
				logger.Error("migrate schema", slog.String("error", err.Error()))
				os.Exit(1)
			}
			logger.Info("schema migrations applied")
		}

		repo = lexeme.New(pool)
		txm = postgres.NewTxManager(pool)
	}

	pipeline := seeder.NewPipeline(logger, repo, txm, *seederCfg)
	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully",
		slog.Int("entries", result.Entries),
		slog.Int("lexemes", result.Lexemes),
		slog.Int("definitions", result.Definitions),
		slog.Int("inserted_lexemes", result.InsertedLexemes),
		slog.Int("inserted_definitions", result.InsertedDefinitions),
		slog.Duration("duration", result.Duration),
	)
}
