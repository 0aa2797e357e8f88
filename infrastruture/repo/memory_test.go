package repo

import (
	"testing"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryResultRepo(t *testing.T) {
	repo := NewMemoryResultRepo()
	base := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for n := range 3 {
		res := &dmn.MatchResult{ID: uuid.New(), Mode: "duel", Scores: []int{n, 0}, EndedAt: base.Add(time.Duration(n) * time.Minute)}
		ids = append(ids, res.ID)
		require.NoError(t, repo.Save(res))
	}

	t.Run("Newest first", func(t *testing.T) {
		got, err := repo.Recent(2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[2], got[0].ID)
		assert.Equal(t, ids[1], got[1].ID)
	})

	t.Run("Save replaces by ID", func(t *testing.T) {
		require.NoError(t, repo.Save(&dmn.MatchResult{ID: ids[0], Mode: "solo", EndedAt: base.Add(time.Hour)}))
		got, err := repo.Recent(0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "solo", got[0].Mode)
	})
}
