package booking

import (
	"github.com/shabasam/bookaspot-main/internal/models"
)

// Caller is the verified identity handed in by the authentication layer.
type Caller struct {
	ID   uint
	Role string
}

const (
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

// A date with no booking row is implicitly free. Creating a row is the only
// way out of free, deleting a row is the only way back in. Everything in
// between is governed by the transition table below.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:  {models.BookingStatusAccepted, models.BookingStatusRejected},
	models.BookingStatusAccepted: {models.BookingStatusCancelled},
}

// CanTransition reports whether a stored booking may move from one status to
// another. Transitions are performed by the owning vendor only; the service
// checks ownership before consulting this table.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreationStatus returns the status a new booking row starts in for the
// given role: customers request dates (pending), vendors block them.
func CreationStatus(role string) (models.BookingStatus, bool) {
	switch role {
	case RoleCustomer:
		return models.BookingStatusPending, true
	case RoleVendor:
		return models.BookingStatusBlocked, true
	}
	return "", false
}

// CanDelete reports whether the caller may remove a booking row, freeing its
// date. The owning vendor may always delete (unblock, cleanup). A customer
// may withdraw their own request while it is still pending or after the
// vendor rejected it, but never once it has been accepted.
func CanDelete(caller Caller, ownerID uint, b *models.Booking) bool {
	if caller.Role == RoleVendor {
		return caller.ID == ownerID
	}
	if b.CustomerID != caller.ID {
		return false
	}
	return b.Status == models.BookingStatusPending || b.Status == models.BookingStatusRejected
}

// ValidStatus reports whether s is one of the persisted booking statuses.
func ValidStatus(s models.BookingStatus) bool {
	switch s {
	case models.BookingStatusPending, models.BookingStatusAccepted,
		models.BookingStatusRejected, models.BookingStatusBlocked,
		models.BookingStatusCancelled:
		return true
	}
	return false
}
