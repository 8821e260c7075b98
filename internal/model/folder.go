package model

import "time"

// Folder is a user-named collection ("cart") that scopes scanned items.
// Its identity is immutable once created.
type Folder struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
