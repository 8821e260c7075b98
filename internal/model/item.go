package model

import "time"

// ScannedItem is one resolved product instance associated with a folder
// and a point in time. Items are created by the scan workflow and never
// updated in place.
type ScannedItem struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	FolderID  string    `gorm:"index;size:64;not null" json:"folderId"`
	Barcode   string    `gorm:"size:64" json:"barcode"`
	Name      string    `gorm:"size:256" json:"name"`
	Brand     string    `gorm:"size:256" json:"brand"`
	Quantity  string    `gorm:"size:64" json:"quantity"`
	Calories  float64   `json:"calories"`
	Protein   string    `gorm:"size:32" json:"protein"`
	Carbs     string    `gorm:"size:32" json:"carbs"`
	Fats      string    `gorm:"size:32" json:"fats"`
	Image     string    `gorm:"size:512" json:"image"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
