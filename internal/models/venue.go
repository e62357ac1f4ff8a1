package models

import (
	"gorm.io/gorm"
)

type Venue struct {
	gorm.Model
	OwnerID     uint         `json:"ownerId" gorm:"column:owner_id;not null;index"`
	Name        string       `json:"name" gorm:"column:name;not null"`
	Address     string       `json:"address" gorm:"column:address;not null"`
	GmapURL     string       `json:"gmapUrl" gorm:"column:gmap_url"`
	Capacity    int          `json:"capacity" gorm:"column:capacity;not null"`
	Cost        string       `json:"cost" gorm:"column:cost;not null"`
	Contact     string       `json:"contact" gorm:"column:contact;not null"`
	EventType   string       `json:"eventType" gorm:"column:event_type;not null"`
	Description string       `json:"description" gorm:"column:description"`
	Photos      []VenuePhoto `json:"photos,omitempty"`
}

// TableName specifies the table name
func (Venue) TableName() string {
	return "venues"
}

type VenuePhoto struct {
	gorm.Model
	VenueID uint   `json:"venueId" gorm:"not null;index"`
	URL     string `json:"url" gorm:"not null"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  string `json:"format"`
}
