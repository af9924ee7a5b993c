package models

import "time"

// User is the profile record behind a caller identity. Authentication itself
// is handled by the identity provider; the backend only resolves the user ID
// from the presented token.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	TokenHash string    `bson:"token_hash,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
