package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
)

// In-memory implementations of the repository contracts, backing the
// -memory mode and the test suites. They copy documents on the way in
// and out so callers never alias stored state, mirroring the
// load-mutate-save discipline of the SQL implementations.

type MemoryUserStatsRepository struct {
	mu     sync.Mutex
	nextID int64
	byUser map[string]*models.UserStats
}

func NewMemoryUserStatsRepository() *MemoryUserStatsRepository {
	return &MemoryUserStatsRepository{byUser: make(map[string]*models.UserStats)}
}

func (r *MemoryUserStatsRepository) Get(_ context.Context, userID string) (*models.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	return stats.Clone(), nil
}

func (r *MemoryUserStatsRepository) GetAll(_ context.Context) ([]*models.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*models.UserStats, 0, len(r.byUser))
	for _, stats := range r.byUser {
		all = append(all, stats.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all, nil
}

func (r *MemoryUserStatsRepository) Save(_ context.Context, stats *models.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats.UpdatedAt = time.Now()
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = stats.UpdatedAt
	}
	if stats.ID == 0 {
		r.nextID++
		stats.ID = r.nextID
	}
	r.byUser[stats.UserID] = stats.Clone()
	return nil
}

type MemoryActivityRepository struct {
	mu      sync.Mutex
	nextID  int64
	entries []*models.ActivityEntry // newest first
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{}
}

func (r *MemoryActivityRepository) Append(_ context.Context, entry *models.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	r.nextID++
	entry.ID = r.nextID

	copied := *entry
	r.entries = append([]*models.ActivityEntry{&copied}, r.entries...)
	if len(r.entries) > maxActivityEntries {
		r.entries = r.entries[:maxActivityEntries]
	}
	return nil
}

func (r *MemoryActivityRepository) List(_ context.Context, userID string, limit int) ([]*models.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > maxActivityEntries {
		limit = 50
	}

	out := make([]*models.ActivityEntry, 0, limit)
	for _, e := range r.entries {
		if userID != "" && e.UserID != userID {
			continue
		}
		copied := *e
		out = append(out, &copied)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type MemoryStreakRepository struct {
	mu         sync.Mutex
	nextID     int64
	byLocation map[string]*models.LocationStreak
}

func NewMemoryStreakRepository() *MemoryStreakRepository {
	return &MemoryStreakRepository{byLocation: make(map[string]*models.LocationStreak)}
}

func (r *MemoryStreakRepository) Get(_ context.Context, location string) (*models.LocationStreak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	streak, ok := r.byLocation[location]
	if !ok {
		return nil, nil
	}
	return streak.Clone(), nil
}

func (r *MemoryStreakRepository) Save(_ context.Context, streak *models.LocationStreak) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	streak.UpdatedAt = time.Now()
	if streak.ID == 0 {
		r.nextID++
		streak.ID = r.nextID
	}
	r.byLocation[streak.Location] = streak.Clone()
	return nil
}

type MemoryLeaderboardRepository struct {
	mu       sync.Mutex
	snapshot *models.LeaderboardSnapshot
}

func NewMemoryLeaderboardRepository() *MemoryLeaderboardRepository {
	return &MemoryLeaderboardRepository{}
}

func (r *MemoryLeaderboardRepository) Get(_ context.Context) (*models.LeaderboardSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot == nil {
		return nil, nil
	}
	return r.snapshot.Clone(), nil
}

func (r *MemoryLeaderboardRepository) Save(_ context.Context, snapshot *models.LeaderboardSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot.UpdatedAt = time.Now()
	if snapshot.ID == 0 {
		snapshot.ID = 1
	}
	r.snapshot = snapshot.Clone()
	return nil
}

type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	byUser map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byUser: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) Get(_ context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byUser {
		if strings.EqualFold(user.Username, username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetAll(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*models.User, 0, len(r.byUser))
	for _, user := range r.byUser {
		if !user.Active {
			continue
		}
		copied := *user
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all, nil
}

func (r *MemoryUserRepository) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.UpdatedAt = time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = user.UpdatedAt
	}
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	copied := *user
	r.byUser[user.UserID] = &copied
	return nil
}
