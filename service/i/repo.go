package i

import (
	dmn "github.com/beka-birhanu/snake-duel/domain"
)

// ResultRepo defines the interface for match result persistence.
type ResultRepo interface {
	// Save inserts or replaces a result keyed by its ID.
	Save(result *dmn.MatchResult) error

	// Recent returns up to limit results, newest first.
	Recent(limit int) ([]*dmn.MatchResult, error)
}
