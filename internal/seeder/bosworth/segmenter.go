// Package bosworth reconstructs dictionary entries from the flat,
// page-paginated markup transcript of the Bosworth–Toller Anglo-Saxon
// dictionary and groups them under a normalized headword key.
//
// The transcript interleaves entry text with page headers, page numbers and
// blank lines, and the bolding conventions that mark a new entry are not
// fully consistent. Segmentation and headword extraction are therefore
// heuristic, backed by hand-curated exception tables (see Exceptions).
// Every heuristic violation is a fatal error carrying enough context to
// extend the tables; nothing is guessed or silently skipped.
package bosworth

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// state of the line-reading machine.
type state int

const (
	stateIntro     state = iota + 1 // before the first entry
	stateEntry                      // inside an entry
	stateBreak                      // after a blank line inside an entry
	statePageBreak                  // after a page header / page number line
)

func (s state) String() string {
	switch s {
	case stateIntro:
		return "INTRO"
	case stateEntry:
		return "ENTRY"
	case stateBreak:
		return "BREAK"
	case statePageBreak:
		return "PAGE_BREAK"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// boldOpen marks the start of a bolded phrase; at the start of a line it is
// the entry-boundary signal.
const boldOpen = "<B>"

// pageMarkers open the structural lines that appear between transcript pages.
var pageMarkers = []string{"<HEADER>", "<PAGE NUM", "<letterheader"}

func isPageMarker(line string) bool {
	for _, m := range pageMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

// ReadEntries segments the transcript into entry blocks, in order. Each
// block is the newline-joined text of one dictionary entry, possibly
// spanning several pages. Blank lines and page markers between entries are
// discarded, as is everything before the first entry.
//
// A bolded phrase at the start of a line opens a new entry unless the line
// ordinal is blacklisted; a bolded line mid-entry is a fatal SegmentError
// unless the ordinal is whitelisted. Page markers are only legal between
// pages. See Exceptions for the curated ordinal sets.
func ReadEntries(r io.Reader, exc *Exceptions) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	st := stateIntro
	var partial []string // lines of the in-progress entry
	var entries []string
	n := 0

	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())

		// A bolded phrase at the start of a line opens a new entry, except
		// at blacklisted ordinals.
		if strings.HasPrefix(line, boldOpen) && !exc.NotAnEntry(n) {
			if st == stateEntry && !exc.AlwaysAnEntry(n) {
				return nil, &SegmentError{
					Ordinal: n,
					State:   st.String(),
					Line:    line,
					Reason:  "bolded line mid-entry is not on the entry whitelist",
				}
			}
			if len(partial) > 0 {
				entries = append(entries, strings.Join(partial, "\n"))
			}
			partial = []string{line}
			st = stateEntry
			continue
		}

		// Before the first entry everything is front matter.
		if st == stateIntro {
			continue
		}

		// A blank inside an entry is ambiguous: entry boundary or page break.
		if line == "" && st == stateEntry {
			st = stateBreak
			continue
		}

		// Page markers only occur between pages, never inside entry text.
		if isPageMarker(line) {
			if st != stateBreak && st != statePageBreak {
				return nil, &SegmentError{
					Ordinal: n,
					State:   st.String(),
					Line:    line,
					Reason:  "page marker inside entry text",
				}
			}
			st = statePageBreak
			continue
		}

		// Blanks between page markers keep us between pages.
		if line == "" && st == statePageBreak {
			continue
		}

		// Anything else continues the current entry, possibly across a page
		// break or a spurious mid-entry blank.
		if len(partial) == 0 {
			return nil, &SegmentError{
				Ordinal: n,
				State:   st.String(),
				Line:    line,
				Reason:  "continuation text with no open entry",
			}
		}
		partial = append(partial, line)
		st = stateEntry
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	if len(partial) > 0 {
		entries = append(entries, strings.Join(partial, "\n"))
	}
	return entries, nil
}
