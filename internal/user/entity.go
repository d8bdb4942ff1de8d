// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User is the owner of every CRM row. Deleting a user removes their
// organizations, events and pipeline stages through foreign key cascades.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
