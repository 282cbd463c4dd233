package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsboxes-backend/testing/suite"
)

func TestLeaderboardRepository_AddScore(t *testing.T) {
	ctx, st := suite.New(t)

	leaderboardRepo := NewLeaderboardRepository(st.Storage)

	// Given: two recorded games for the same player
	require.NoError(t, leaderboardRepo.AddScore(ctx, "alice", 3))
	require.NoError(t, leaderboardRepo.AddScore(ctx, "alice", 2))

	// When: reading the top entries
	entries, err := leaderboardRepo.Top(ctx, 10)

	// Then: the scores accumulate under one name
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LeaderboardEntry{Name: "alice", Score: 5}, entries[0])
}

func TestLeaderboardRepository_Top(t *testing.T) {
	t.Run("Top_OrderedAndLimited", func(t *testing.T) {
		ctx, st := suite.New(t)

		leaderboardRepo := NewLeaderboardRepository(st.Storage)

		// Given: three players with distinct totals
		require.NoError(t, leaderboardRepo.AddScore(ctx, "alice", 1))
		require.NoError(t, leaderboardRepo.AddScore(ctx, "bob", 7))
		require.NoError(t, leaderboardRepo.AddScore(ctx, "carol", 4))

		// When: asking for the top two
		entries, err := leaderboardRepo.Top(ctx, 2)

		// Then: the highest totals come first and the limit holds
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "bob", entries[0].Name)
		assert.Equal(t, int64(7), entries[0].Score)
		assert.Equal(t, "carol", entries[1].Name)
	})

	t.Run("Top_Empty", func(t *testing.T) {
		ctx, st := suite.New(t)

		leaderboardRepo := NewLeaderboardRepository(st.Storage)

		// When: reading from an empty leaderboard
		entries, err := leaderboardRepo.Top(ctx, 10)

		// Then: no entries and no error
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
