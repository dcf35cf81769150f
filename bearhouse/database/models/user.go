package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is one row of the employee registry. The registry is maintained by
// the scheduling sync, not by the gamification engine; stats records
// denormalize identity from here and refresh it on profile reads.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull,unique"`
	Username  string    `bun:"username,notnull"`
	FullName  string    `bun:"full_name,notnull"`
	Location  string    `bun:"location,notnull"`
	Role      string    `bun:"role,notnull,default:'employee'"`
	Active    bool      `bun:"active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
