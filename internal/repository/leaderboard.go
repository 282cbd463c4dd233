package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
)

const leaderboardKey = "leaderboard:boxes"

// LeaderboardRepository - the cross-room score archive. Rooms themselves live
// in memory; only completed-box totals survive a room's teardown.
type LeaderboardRepository interface {
	AddScore(ctx context.Context, playerName string, score int) error
	Top(ctx context.Context, limit int64) ([]entity.LeaderboardEntry, error)
}

type dbLeaderboard struct {
	client *redis.Client
}

func NewLeaderboardRepository(client *redis.Client) LeaderboardRepository {
	return &dbLeaderboard{
		client: client,
	}
}

func (that *dbLeaderboard) AddScore(ctx context.Context, playerName string, score int) error {
	err := that.client.ZIncrBy(ctx, leaderboardKey, float64(score), playerName).Err()
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}

	return nil
}

func (that *dbLeaderboard) Top(ctx context.Context, limit int64) ([]entity.LeaderboardEntry, error) {
	results, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}

	entries := make([]entity.LeaderboardEntry, 0, len(results))
	for _, result := range results {
		name, ok := result.Member.(string)
		if !ok {
			continue
		}

		entries = append(entries, entity.LeaderboardEntry{
			Name:  name,
			Score: int64(result.Score),
		})
	}

	return entries, nil
}
