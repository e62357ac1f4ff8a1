package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shabasam/bookaspot-main/internal/models"
)

// Cache invalidates and serves the per-venue booking projection. It is
// optional: a nil cache means every read goes to the database.
type Cache interface {
	GetVenueBookings(ctx context.Context, venueID uint) ([]models.Booking, bool)
	SetVenueBookings(ctx context.Context, venueID uint, bookings []models.Booking)
	Invalidate(ctx context.Context, venueID uint)
}

// Service is the booking core: the authorization gate in front of the
// booking ledger. All mutations and ledger reads go through here.
type Service struct {
	db    *gorm.DB
	dir   *Directory
	cache Cache
}

func NewService(db *gorm.DB, dir *Directory, cache Cache) *Service {
	return &Service{db: db, dir: dir, cache: cache}
}

// CreateInput carries a customer's date request. The name and email are
// snapshots taken from the caller's verified claims so the booking stays
// displayable even if the account changes later.
type CreateInput struct {
	VenueID       uint
	Date          time.Time
	Notes         string
	CustomerName  string
	CustomerEmail string
}

// ListFilter narrows List results. Filters are intersected with the
// caller's ownership scope, they can never widen it.
type ListFilter struct {
	VenueID    uint
	CustomerID uint
	From       time.Time
	To         time.Time
}

// CreateBooking records a customer's request for a date, status pending.
// The unique (venue_id, date) index is what guarantees a date cannot be
// taken twice; the lookup beforehand only exists to answer the common case
// without surfacing a constraint violation.
func (s *Service) CreateBooking(ctx context.Context, caller Caller, in CreateInput) (*models.Booking, error) {
	if caller.ID == 0 {
		return nil, ErrUnauthorized
	}
	if caller.Role != RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can request dates", ErrUnauthorized)
	}
	if in.VenueID == 0 || in.Date.IsZero() || in.CustomerName == "" || in.CustomerEmail == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}

	venue, err := s.dir.GetVenue(ctx, in.VenueID)
	if err != nil {
		return nil, err
	}

	status, _ := CreationStatus(caller.Role)
	b := models.Booking{
		VenueID:       venue.ID,
		VenueName:     venue.Name,
		CustomerID:    caller.ID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Date:          normalizeDate(in.Date),
		Status:        status,
		Notes:         in.Notes,
	}
	if err := s.insert(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// BlockDate marks a date unavailable. Stored as a booking with the vendor's
// own identity in the customer columns, the same shape the calendar reads.
func (s *Service) BlockDate(ctx context.Context, caller Caller, venueID uint, date time.Time, notes string) (*models.Booking, error) {
	if caller.ID == 0 {
		return nil, ErrUnauthorized
	}
	if caller.Role != RoleVendor {
		return nil, fmt.Errorf("%w: only vendors can block dates", ErrUnauthorized)
	}
	if venueID == 0 || date.IsZero() {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}

	venue, err := s.dir.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != caller.ID {
		return nil, fmt.Errorf("%w: venue not owned by caller", ErrUnauthorized)
	}

	if notes == "" {
		notes = "Blocked by venue owner"
	}
	status, _ := CreationStatus(caller.Role)
	b := models.Booking{
		VenueID:       venue.ID,
		VenueName:     venue.Name,
		CustomerID:    caller.ID,
		CustomerName:  "BLOCKED",
		CustomerEmail: "BLOCKED",
		Date:          normalizeDate(date),
		Status:        status,
		Notes:         notes,
	}
	if err := s.insert(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// insert performs the uniqueness-guarded write shared by CreateBooking and
// BlockDate. Races on the same (venue, date) resolve at the index: exactly
// one insert commits, the rest come back as duplicate-key errors.
func (s *Service) insert(ctx context.Context, b *models.Booking) error {
	var existing models.Booking
	err := s.db.WithContext(ctx).
		Where("venue_id = ? AND date = ?", b.VenueID, b.Date).
		First(&existing).Error
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.invalidate(ctx, b.VenueID)
	return nil
}

// GetBooking fetches one booking if the caller may see it: the owning
// vendor, or the customer who made it.
func (s *Service) GetBooking(ctx context.Context, caller Caller, id uint) (*models.Booking, error) {
	if caller.ID == 0 {
		return nil, ErrUnauthorized
	}
	b, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus applies a vendor's decision on a booking. Customers can
// never transition a booking, not even their own.
func (s *Service) UpdateStatus(ctx context.Context, caller Caller, id uint, status models.BookingStatus, notes string) (*models.Booking, error) {
	if caller.ID == 0 {
		return nil, ErrUnauthorized
	}
	if caller.Role != RoleVendor {
		return nil, fmt.Errorf("%w: only the owning vendor can change booking status", ErrUnauthorized)
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	b, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	venue, err := s.dir.GetVenue(ctx, b.VenueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != caller.ID {
		return nil, fmt.Errorf("%w: venue not owned by caller", ErrUnauthorized)
	}
	if !CanTransition(b.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, b.Status, status)
	}

	b.Status = status
	if notes != "" {
		b.Notes = notes
	}
	if err := s.db.WithContext(ctx).Save(b).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.invalidate(ctx, b.VenueID)
	return b, nil
}

// Delete removes a booking row, returning its date to free. The owning
// vendor can always delete; a customer can withdraw their own pending or
// rejected request.
func (s *Service) Delete(ctx context.Context, caller Caller, id uint) error {
	if caller.ID == 0 {
		return ErrUnauthorized
	}
	b, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	venue, err := s.dir.GetVenue(ctx, b.VenueID)
	if err != nil {
		return err
	}
	if !CanDelete(caller, venue.OwnerID, b) {
		return fmt.Errorf("%w: cannot delete this booking", ErrUnauthorized)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Booking{}, b.ID).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.invalidate(ctx, b.VenueID)
	return nil
}

// List returns bookings visible to the caller, ordered by date ascending.
// A vendor sees bookings of venues they own, a customer sees their own.
func (s *Service) List(ctx context.Context, caller Caller, f ListFilter) ([]models.Booking, error) {
	if caller.ID == 0 {
		return nil, ErrUnauthorized
	}

	query := s.db.WithContext(ctx).Model(&models.Booking{})

	switch caller.Role {
	case RoleVendor:
		owned, err := s.dir.OwnedVenueIDs(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		if len(owned) == 0 {
			return []models.Booking{}, nil
		}
		if f.VenueID != 0 {
			if !containsID(owned, f.VenueID) {
				return []models.Booking{}, nil
			}
			query = query.Where("venue_id = ?", f.VenueID)
		} else {
			query = query.Where("venue_id IN ?", owned)
		}
		if f.CustomerID != 0 {
			query = query.Where("customer_id = ?", f.CustomerID)
		}
	case RoleCustomer:
		if f.CustomerID != 0 && f.CustomerID != caller.ID {
			return []models.Booking{}, nil
		}
		query = query.Where("customer_id = ?", caller.ID)
		if f.VenueID != 0 {
			query = query.Where("venue_id = ?", f.VenueID)
		}
	default:
		return nil, ErrUnauthorized
	}

	if !f.From.IsZero() && !f.To.IsZero() {
		query = query.Where("date >= ? AND date <= ?", normalizeDate(f.From), normalizeDate(f.To))
	}

	var bookings []models.Booking
	if err := query.Order("date ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return bookings, nil
}

// PendingCount recomputes the number of open requests for a venue straight
// from the ledger. Nothing keeps a running counter, so the value cannot
// drift.
func (s *Service) PendingCount(ctx context.Context, caller Caller, venueID uint) (int64, error) {
	if caller.ID == 0 {
		return 0, ErrUnauthorized
	}
	venue, err := s.dir.GetVenue(ctx, venueID)
	if err != nil {
		return 0, err
	}
	if caller.Role != RoleVendor || venue.OwnerID != caller.ID {
		return 0, fmt.Errorf("%w: venue not owned by caller", ErrUnauthorized)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("venue_id = ? AND status = ?", venueID, models.BookingStatusPending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

func (s *Service) fetch(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return &b, nil
}

// authorize decides read access to a single booking. Ownership of the
// venue is resolved through the directory, not trusted from the row.
func (s *Service) authorize(ctx context.Context, caller Caller, b *models.Booking) error {
	switch caller.Role {
	case RoleVendor:
		venue, err := s.dir.GetVenue(ctx, b.VenueID)
		if err != nil {
			return err
		}
		if venue.OwnerID != caller.ID {
			return fmt.Errorf("%w: venue not owned by caller", ErrUnauthorized)
		}
		return nil
	case RoleCustomer:
		if b.CustomerID != caller.ID {
			return fmt.Errorf("%w: booking belongs to another customer", ErrUnauthorized)
		}
		return nil
	}
	return ErrUnauthorized
}

func (s *Service) invalidate(ctx context.Context, venueID uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, venueID)
	}
}

// normalizeDate strips the time component; bookings are date-granular.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
