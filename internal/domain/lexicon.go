package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lexeme is one reconstructed dictionary word: all entries whose first
// headword folds to the same ASCII key, merged under that key.
type Lexeme struct {
	ID        uuid.UUID
	Key       string    // ASCII-folded grouping key, never empty
	Headwords []string  // distinct spelling variants, sorted
	CreatedAt time.Time
}

// Definition is one entry block attached to a lexeme. Position preserves
// transcript order; the typical lexeme carries two definitions, one from
// Bosworth and one from Toller, back to back.
type Definition struct {
	ID       uuid.UUID
	LexemeID uuid.UUID
	Position int
	HTML     string // marked-up entry text, post entity normalization
}
