package bosworth

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed exceptions.yaml
var defaultExceptionsYAML []byte

// HeadwordOverride maps a literal entry prefix to the headword that the
// general extraction heuristic would get wrong.
type HeadwordOverride struct {
	Prefix   string
	Headword string
}

// Exceptions holds the hand-curated corrections that take precedence over
// the segmentation and extraction heuristics. They are data, not code:
// fixing a misclassified transcript line means editing the YAML file,
// not the algorithm.
type Exceptions struct {
	notAnEntry    map[int]bool
	alwaysAnEntry map[int]bool
	overrides     []HeadwordOverride
}

type exceptionsFile struct {
	NotAnEntry        []int             `yaml:"not_an_entry"`
	AlwaysAnEntry     []int             `yaml:"always_an_entry"`
	HeadwordOverrides map[string]string `yaml:"headword_overrides"`
}

// ParseExceptions decodes exception tables from YAML.
func ParseExceptions(data []byte) (*Exceptions, error) {
	var f exceptionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("exceptions: decode yaml: %w", err)
	}

	exc := &Exceptions{
		notAnEntry:    make(map[int]bool, len(f.NotAnEntry)),
		alwaysAnEntry: make(map[int]bool, len(f.AlwaysAnEntry)),
		overrides:     make([]HeadwordOverride, 0, len(f.HeadwordOverrides)),
	}
	for _, n := range f.NotAnEntry {
		exc.notAnEntry[n] = true
	}
	for _, n := range f.AlwaysAnEntry {
		exc.alwaysAnEntry[n] = true
	}
	for prefix, hwd := range f.HeadwordOverrides {
		exc.overrides = append(exc.overrides, HeadwordOverride{Prefix: prefix, Headword: hwd})
	}

	// Longest prefix first, so that overlapping prefixes match deterministically.
	sort.Slice(exc.overrides, func(i, j int) bool {
		a, b := exc.overrides[i].Prefix, exc.overrides[j].Prefix
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return exc, nil
}

// LoadExceptions reads exception tables from a YAML file. An empty path
// loads the embedded defaults (the tables curated against the current
// transcript revision).
func LoadExceptions(path string) (*Exceptions, error) {
	if path == "" {
		return ParseExceptions(defaultExceptionsYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("exceptions: read %s: %w", path, err)
	}
	return ParseExceptions(data)
}

// NotAnEntry reports whether the line at ordinal n must not start an entry.
func (e *Exceptions) NotAnEntry(n int) bool { return e.notAnEntry[n] }

// AlwaysAnEntry reports whether the line at ordinal n starts an entry even
// when the segmenter is mid-entry.
func (e *Exceptions) AlwaysAnEntry(n int) bool { return e.alwaysAnEntry[n] }

// Override returns the curated headword for entries beginning with a known
// prefix. The longest matching prefix wins.
func (e *Exceptions) Override(entry string) (string, bool) {
	for _, o := range e.overrides {
		if len(entry) >= len(o.Prefix) && entry[:len(o.Prefix)] == o.Prefix {
			return o.Headword, true
		}
	}
	return "", false
}
