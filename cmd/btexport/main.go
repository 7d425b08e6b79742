// Command btexport converts a lexicon JSON snapshot produced by btseed
// into a flat '@'-delimited text file, one row per definition. The
// output is re-read and verified before the command reports success.
//
// Flags:
//
//	--in   path to the lexicon JSON file (required)
//	--out  path to the delimited output file (default: <in>.txt)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/oldenglish-backend/internal/app"
	"github.com/heartmarshall/oldenglish-backend/internal/config"
	"github.com/heartmarshall/oldenglish-backend/internal/export"
)

func main() {
	inFlag := flag.String("in", "", "path to the lexicon JSON file")
	outFlag := flag.String("out", "", "path to the delimited output file (default: <in>.txt)")
	flag.Parse()

	if *inFlag == "" {
		log.Fatal("--in is required")
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = strings.TrimSuffix(*inFlag, ".json") + ".txt"
	}

	logCfg, err := config.LoadLog()
	if err != nil {
		log.Fatalf("load log config: %v", err)
	}
	logger := app.NewLogger(logCfg)

	stats, err := export.Run(*inFlag, outPath)
	if err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("export completed",
		slog.String("path", outPath),
		slog.Int("lexemes", stats.Lexemes),
		slog.Int("rows", stats.Rows),
	)
}
