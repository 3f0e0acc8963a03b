package domain

import "time"

// Favorite marks a fish as saved by a user. UserID is free-form so the
// embedding application can scope favorites however it identifies callers
// (device ID, account ID); the default user is "local".
type Favorite struct {
	UserID    string    `gorm:"type:text;primaryKey" json:"user_id"`
	FishID    string    `gorm:"type:text;primaryKey" json:"fish_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Favorite.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Favorite) TableName() string {
	return "favorites"
}
