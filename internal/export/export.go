// Package export converts a collected lexicon JSON file into a flat
// delimited text file suitable for downstream glossary builders.
//
// Each definition becomes one row of three fields joined by '@':
// the lexeme key, the definition with newlines removed, and the
// comma-joined alternative spellings. '@' is used because commas
// appear freely inside the fields.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Delimiter separates the three fields of every exported row.
const Delimiter = '@'

// Record is one lexeme as stored in the collected lexicon JSON.
type Record struct {
	Headwords []string `json:"headwords"`
	Defns     []string `json:"defns"`
}

// Stats reports what an export run produced.
type Stats struct {
	Lexemes int
	Rows    int
}

// Run reads a lexicon JSON file, writes the delimited export to outPath
// and re-reads the result to verify that every row still parses into
// exactly three fields. Any verification failure is returned as an
// error; the output file is left in place for inspection.
func Run(inPath, outPath string) (Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open lexicon: %w", err)
	}
	defer in.Close()

	lexicon, err := ReadLexicon(in)
	if err != nil {
		return Stats{}, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, fmt.Errorf("create export: %w", err)
	}
	rows, err := WriteDelimited(out, lexicon)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Stats{}, err
	}

	check, err := os.Open(outPath)
	if err != nil {
		return Stats{}, fmt.Errorf("reopen export: %w", err)
	}
	defer check.Close()
	if err := Verify(check, rows); err != nil {
		return Stats{}, err
	}

	return Stats{Lexemes: len(lexicon), Rows: rows}, nil
}

// ReadLexicon decodes the key -> record mapping produced by the seeder.
func ReadLexicon(r io.Reader) (map[string]Record, error) {
	var lexicon map[string]Record
	if err := json.NewDecoder(r).Decode(&lexicon); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	return lexicon, nil
}

// WriteDelimited writes one row per definition, keys in sorted order,
// and returns the number of rows written.
func WriteDelimited(w io.Writer, lexicon map[string]Record) (int, error) {
	keys := make([]string, 0, len(lexicon))
	for key := range lexicon {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	rows := 0
	for _, key := range keys {
		rec := lexicon[key]
		alternatives := strings.Join(rec.Headwords, ",")
		for _, defn := range rec.Defns {
			defn = strings.ReplaceAll(defn, "\n", "")
			fmt.Fprintf(bw, "%s%c%s%c%s\n", key, Delimiter, defn, Delimiter, alternatives)
			rows++
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return rows, nil
}

// Verify re-parses an export and checks that every row has exactly
// three fields and that the row count matches wantRows. A mismatch
// usually means a field contained the delimiter itself.
func Verify(r io.Reader, wantRows int) error {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("verify export: row %d: %w", rows+1, err)
		}
		if len(record) != 3 {
			return fmt.Errorf("verify export: row %d has %d fields, want 3: %q", rows+1, len(record), record)
		}
		rows++
	}
	if rows != wantRows {
		return fmt.Errorf("verify export: read %d rows, wrote %d", rows, wantRows)
	}
	return nil
}
