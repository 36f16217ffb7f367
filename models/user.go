package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account holder. Password stores the bcrypt hash and is
// never serialized to JSON.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Tel       string    `bson:"tel,omitempty" json:"tel,omitempty"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
