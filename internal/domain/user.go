package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. PasswordHash is written and verified by the
// identity layer only; the core never inspects it.
type User struct {
	ID           primitive.ObjectID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate is a partial update: nil fields are left untouched. The
// password hash is never updated through this path.
type UserUpdate struct {
	Username *string
	Email    *string
}

// Principal is the authenticated actor attached to a request by the
// identity layer. A nil *Principal means the request is anonymous.
type Principal struct {
	UserID   primitive.ObjectID
	Username string
}
