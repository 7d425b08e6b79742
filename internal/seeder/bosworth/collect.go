package bosworth

import (
	"sort"

	"github.com/heartmarshall/oldenglish-backend/internal/textnorm"
)

// Collected merges every entry whose first headword folds to one canonical
// key: the distinct spelling variants seen across those entries, and their
// definition blocks in transcript order (typically Bosworth's entry followed
// by Toller's).
type Collected struct {
	Headwords map[string]bool
	Defns     []string
}

// HeadwordList returns the spelling set as a sorted slice.
func (c *Collected) HeadwordList() []string {
	list := make([]string, 0, len(c.Headwords))
	for h := range c.Headwords {
		list = append(list, h)
	}
	sort.Strings(list)
	return list
}

// CollectEntries groups entry blocks by the ASCII folding of their first
// headword. Entity normalization is applied to each block before extraction,
// so the stored definitions carry decoded characters.
//
// An empty canonical key or an empty headword aborts the run: merging such
// entries would corrupt the grouping undetectably.
func CollectEntries(entries []string, exc *Exceptions) (map[string]*Collected, error) {
	collected := make(map[string]*Collected)

	for _, e := range entries {
		e = textnorm.FixEntities(e)

		headwords, err := ExtractHeadwords(e, exc)
		if err != nil {
			return nil, err
		}

		key := textnorm.Ascify(headwords[0])
		bad := key == ""
		for _, h := range headwords {
			if h == "" {
				bad = true
			}
		}
		if bad {
			return nil, &NormalizationError{Key: key, Headwords: headwords, Entry: e}
		}

		c := collected[key]
		if c == nil {
			c = &Collected{Headwords: make(map[string]bool)}
			collected[key] = c
		}
		for _, h := range headwords {
			c.Headwords[h] = true
		}
		c.Defns = append(c.Defns, e)
	}

	return collected, nil
}
