package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/shabasam/bookaspot-main/internal/models"
)

// The calendars window their queries to twelve months; anything wider is a
// caller bug.
const maxAvailabilityDays = 366

// DayStatus is one calendar cell: a date and what occupies it.
type DayStatus struct {
	Date   time.Time            `json:"date"`
	Status models.BookingStatus `json:"status"`
}

// StatusFree marks a date with no booking row. It is never persisted.
const StatusFree models.BookingStatus = "free"

// Availability projects the ledger onto a per-day calendar for one venue,
// inclusive of both endpoints. Days without a booking row are free. The
// result reflects ledger state at call time; the venue cache is dropped on
// every mutation, so a hit is never stale.
func (s *Service) Availability(ctx context.Context, venueID uint, start, end time.Time) ([]DayStatus, error) {
	if venueID == 0 || start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	start = normalizeDate(start)
	end = normalizeDate(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}
	if end.Sub(start) > maxAvailabilityDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidInput, maxAvailabilityDays)
	}

	if _, err := s.dir.GetVenue(ctx, venueID); err != nil {
		return nil, err
	}

	bookings, err := s.venueBookings(ctx, venueID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]models.BookingStatus, len(bookings))
	for _, b := range bookings {
		byDate[normalizeDate(b.Date)] = b.Status
	}

	var days []DayStatus
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		status, ok := byDate[d]
		if !ok {
			status = StatusFree
		}
		days = append(days, DayStatus{Date: d, Status: status})
	}
	return days, nil
}

// venueBookings reads the full booking list for a venue, through the cache
// when one is configured. Cache trouble is not a reason to fail the read;
// it just costs a database round trip.
func (s *Service) venueBookings(ctx context.Context, venueID uint) ([]models.Booking, error) {
	if s.cache != nil {
		if bookings, ok := s.cache.GetVenueBookings(ctx, venueID); ok {
			return bookings, nil
		}
	}

	var bookings []models.Booking
	if err := s.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("date ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if s.cache != nil {
		s.cache.SetVenueBookings(ctx, venueID, bookings)
	}
	return bookings, nil
}
