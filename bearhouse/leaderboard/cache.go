package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
)

// Cache mirrors the ranked boards into Redis ZSETs so rank lookups do not
// need the snapshot document.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) key(board string) string {
	return fmt.Sprintf("lb:%s", board)
}

// MirrorBoard replaces one board's ZSET with the given entries.
func (c *Cache) MirrorBoard(ctx context.Context, board string, entries []models.LeaderboardEntry, score func(models.LeaderboardEntry) int) error {
	key := c.key(board)

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	for _, entry := range entries {
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(score(entry)),
			Member: entry.UserID,
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Rank returns a user's 1-indexed rank on a board, -1 when absent.
func (c *Cache) Rank(ctx context.Context, board, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(board), userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err
}
