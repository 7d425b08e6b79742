package bosworth

import "fmt"

// SegmentError reports a transcript line whose classification is
// incompatible with the segmenter's current state. It is fatal: the
// maintainer extends the exception tables and reruns.
type SegmentError struct {
	Ordinal int    // 1-based transcript line number
	State   string // segmenter state when the line was seen
	Line    string
	Reason  string
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment: line %d in state %s: %s: %q", e.Ordinal, e.State, e.Reason, e.Line)
}

// HeadwordError reports an entry from which no headword could be extracted.
type HeadwordError struct {
	Entry  string
	Reason string
}

func (e *HeadwordError) Error() string {
	return fmt.Sprintf("headword: %s: %q", e.Reason, truncate(e.Entry, 200))
}

// NormalizationError reports an entry whose canonical key or headword came
// out empty after normalization. Merging such entries would silently group
// unrelated words, so the run aborts with full context for diagnosis.
type NormalizationError struct {
	Key       string
	Headwords []string
	Entry     string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize: bad key %q for headwords %q: %q", e.Key, e.Headwords, truncate(e.Entry, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
