// Package registry fronts the employee directory. Identity fields are
// denormalized into stats records and refreshed on profile reads, so lookups
// are frequent and cheap to cache.
package registry

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
)

const cacheSize = 512

// Directory resolves employee identities.
type Directory interface {
	// Lookup returns the registry entry for a user id, or (nil, nil) for an
	// unknown user.
	Lookup(ctx context.Context, userID string) (*models.User, error)
	// ResolveName maps a roster name (username or full name) to a registry
	// entry, or (nil, nil) when nobody matches.
	ResolveName(ctx context.Context, name string) (*models.User, error)
	All(ctx context.Context) ([]*models.User, error)
}

type directory struct {
	users repositories.UserRepository
	cache *lru.Cache
}

func New(users repositories.UserRepository) (Directory, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry cache: %w", err)
	}
	return &directory{users: users, cache: cache}, nil
}

func (d *directory) Lookup(ctx context.Context, userID string) (*models.User, error) {
	if cached, ok := d.cache.Get(userID); ok {
		user := cached.(models.User)
		return &user, nil
	}

	user, err := d.users.Get(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}

	d.cache.Add(userID, *user)
	return user, nil
}

func (d *directory) ResolveName(ctx context.Context, name string) (*models.User, error) {
	user, err := d.users.GetByUsername(ctx, name)
	if err != nil || user != nil {
		return user, err
	}

	// Roster exports carry full names, the registry usernames; fall back to
	// a full-name scan.
	all, err := d.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.FullName == name {
			return u, nil
		}
	}
	return nil, nil
}

func (d *directory) All(ctx context.Context) ([]*models.User, error) {
	return d.users.GetAll(ctx)
}
