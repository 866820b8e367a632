package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is a lending officer account. PasswordHash holds an Argon2id
// encoded hash, never the raw credential.
type User struct {
	ID           snowflake.ID `json:"id,string" gorm:"primaryKey"`
	Username     string       `json:"username" gorm:"uniqueIndex;size:64"`
	PasswordHash string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Claims is the verified identity extracted from a bearer token.
type Claims struct {
	UserID   snowflake.ID
	Username string
}
