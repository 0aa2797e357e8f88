package repo

import (
	"sort"
	"sync"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

var _ i.ResultRepo = &MemoryResultRepo{}

// MemoryResultRepo keeps results in memory when no database is configured.
type MemoryResultRepo struct {
	mu      sync.Mutex
	results map[uuid.UUID]*dmn.MatchResult
}

func NewMemoryResultRepo() *MemoryResultRepo {
	return &MemoryResultRepo{results: make(map[uuid.UUID]*dmn.MatchResult)}
}

func (m *MemoryResultRepo) Save(result *dmn.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *result
	c.Scores = append([]int(nil), result.Scores...)
	m.results[result.ID] = &c
	return nil
}

func (m *MemoryResultRepo) Recent(limit int) ([]*dmn.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	out := make([]*dmn.MatchResult, 0, len(m.results))
	for _, r := range m.results {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].EndedAt.After(out[b].EndedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
