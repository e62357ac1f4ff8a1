package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusBlocked   BookingStatus = "blocked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking associates a venue with a single calendar date. A vendor block is
// stored as a booking with status "blocked" and the vendor's own identity in
// the customer columns. Rows are hard-deleted: the absence of a row is what
// makes a date free again, and a soft-deleted row would keep holding the
// unique (venue_id, date) slot.
type Booking struct {
	ID            uint          `json:"id" gorm:"primarykey"`
	VenueID       uint          `json:"venueId" gorm:"not null;uniqueIndex:idx_bookings_venue_date"`
	Venue         *Venue        `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
	VenueName     string        `json:"venueName" gorm:"not null"`
	CustomerID    uint          `json:"customerId" gorm:"not null;index"`
	CustomerName  string        `json:"customerName" gorm:"not null"`
	CustomerEmail string        `json:"customerEmail" gorm:"not null"`
	Date          time.Time     `json:"date" gorm:"type:date;not null;uniqueIndex:idx_bookings_venue_date"`
	Status        BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
