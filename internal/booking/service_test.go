package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shabasam/bookaspot-main/internal/booking"
	"github.com/shabasam/bookaspot-main/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	return gormDB, mock
}

// fakeCache records invalidations so tests can assert the mutation path
// drops the venue projection.
type fakeCache struct {
	bookings    map[uint][]models.Booking
	invalidated []uint
}

func newFakeCache() *fakeCache {
	return &fakeCache{bookings: make(map[uint][]models.Booking)}
}

func (f *fakeCache) GetVenueBookings(_ context.Context, venueID uint) ([]models.Booking, bool) {
	b, ok := f.bookings[venueID]
	return b, ok
}

func (f *fakeCache) SetVenueBookings(_ context.Context, venueID uint, bookings []models.Booking) {
	f.bookings[venueID] = bookings
}

func (f *fakeCache) Invalidate(_ context.Context, venueID uint) {
	delete(f.bookings, venueID)
	f.invalidated = append(f.invalidated, venueID)
}

func newService(t *testing.T) (*booking.Service, sqlmock.Sqlmock, *fakeCache) {
	t.Helper()
	db, mock := newMockDB(t)
	cache := newFakeCache()
	return booking.NewService(db, booking.NewDirectory(db), cache), mock, cache
}

func venueRows(id, ownerID uint, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "name"}).AddRow(id, ownerID, name)
}

func bookingRows(id, venueID, customerID uint, date time.Time, status models.BookingStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "venue_id", "venue_name", "customer_id", "date", "status"}).
		AddRow(id, venueID, "Grand Hall", customerID, date, status)
}

var (
	customer = booking.Caller{ID: 42, Role: booking.RoleCustomer}
	vendor   = booking.Caller{ID: 7, Role: booking.RoleVendor}
	testDate = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
)

func TestCreateBooking_Success(t *testing.T) {
	svc, mock, cache := newService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "bookings"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	b, err := svc.CreateBooking(ctx, customer, booking.CreateInput{
		VenueID:       3,
		Date:          time.Date(2024, 12, 1, 18, 30, 0, 0, time.Local),
		Notes:         "wedding reception",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), b.VenueID)
	assert.Equal(t, "Grand Hall", b.VenueName)
	assert.Equal(t, uint(42), b.CustomerID)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, testDate, b.Date, "time component must be stripped")
	assert.Equal(t, []uint{3}, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_DateTaken_PreCheck(t *testing.T) {
	svc, mock, cache := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 99, testDate, models.BookingStatusPending))

	_, err := svc.CreateBooking(context.Background(), customer, booking.CreateInput{
		VenueID:       3,
		Date:          testDate,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	})

	assert.ErrorIs(t, err, booking.ErrConflict)
	assert.Empty(t, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_DateTaken_UniqueIndexRace(t *testing.T) {
	svc, mock, _ := newService(t)

	// The pre-check saw a free date, but a concurrent caller won the
	// insert. The unique index is what decides the race.
	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), customer, booking.CreateInput{
		VenueID:       3,
		Date:          testDate,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	})

	assert.ErrorIs(t, err, booking.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_VenueMissing(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.CreateBooking(context.Background(), customer, booking.CreateInput{
		VenueID:       3,
		Date:          testDate,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	})

	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestCreateBooking_RejectsVendorAndAnonymous(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	in := booking.CreateInput{
		VenueID:       3,
		Date:          testDate,
		CustomerName:  "A",
		CustomerEmail: "a@example.com",
	}

	_, err := svc.CreateBooking(ctx, vendor, in)
	assert.ErrorIs(t, err, booking.ErrUnauthorized)

	_, err = svc.CreateBooking(ctx, booking.Caller{}, in)
	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.CreateBooking(context.Background(), customer, booking.CreateInput{
		VenueID: 3,
		Date:    testDate,
	})

	assert.ErrorIs(t, err, booking.ErrInvalidInput)
}

func TestBlockDate_Success(t *testing.T) {
	svc, mock, cache := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "bookings"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	b, err := svc.BlockDate(context.Background(), vendor, 3, testDate, "maintenance")

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusBlocked, b.Status)
	assert.Equal(t, vendor.ID, b.CustomerID)
	assert.Equal(t, "BLOCKED", b.CustomerName)
	assert.Equal(t, "maintenance", b.Notes)
	assert.Equal(t, []uint{3}, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockDate_NotOwner(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 99, "Grand Hall"))

	_, err := svc.BlockDate(context.Background(), vendor, 3, testDate, "")

	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}

func TestBlockDate_VenueMissing(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.BlockDate(context.Background(), vendor, 3, testDate, "")

	// Distinct from the denial when the venue exists but is not ours
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestUpdateStatus_VendorAccepts(t *testing.T) {
	svc, mock, cache := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 42, testDate, models.BookingStatusPending))
	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := svc.UpdateStatus(context.Background(), vendor, 9, models.BookingStatusAccepted, "")

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, b.Status)
	assert.Equal(t, []uint{3}, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_CustomerAlwaysDenied(t *testing.T) {
	svc, _, _ := newService(t)

	// Even the customer who owns the booking cannot transition it
	_, err := svc.UpdateStatus(context.Background(), customer, 9, models.BookingStatusAccepted, "")

	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 7, testDate, models.BookingStatusBlocked))
	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))

	_, err := svc.UpdateStatus(context.Background(), vendor, 9, models.BookingStatusAccepted, "")

	assert.ErrorIs(t, err, booking.ErrIllegalTransition)
}

func TestUpdateStatus_NotOwningVendor(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 42, testDate, models.BookingStatusPending))
	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 99, "Grand Hall"))

	_, err := svc.UpdateStatus(context.Background(), vendor, 9, models.BookingStatusAccepted, "")

	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.UpdateStatus(context.Background(), vendor, 9, "approved", "")

	assert.ErrorIs(t, err, booking.ErrInvalidInput)
}

func TestDelete_VendorUnblocks(t *testing.T) {
	svc, mock, cache := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 7, testDate, models.BookingStatusBlocked))
	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), vendor, 9)

	require.NoError(t, err)
	assert.Equal(t, []uint{3}, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_CustomerWithdrawsPending(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 42, testDate, models.BookingStatusPending))
	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.Delete(context.Background(), customer, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_CustomerCannotRemoveAccepted(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 42, testDate, models.BookingStatusAccepted))
	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))

	err := svc.Delete(context.Background(), customer, 9)

	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}

func TestGetBooking_RoundTrip(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 42, testDate, models.BookingStatusPending))

	b, err := svc.GetBooking(context.Background(), customer, 9)

	require.NoError(t, err)
	assert.Equal(t, uint(3), b.VenueID)
	assert.Equal(t, testDate, b.Date)
	assert.Equal(t, models.BookingStatusPending, b.Status)
}

func TestGetBooking_OtherCustomerDenied(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 99, testDate, models.BookingStatusPending))

	_, err := svc.GetBooking(context.Background(), customer, 9)

	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}

func TestList_VendorScopedToOwnedVenues(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT "id" FROM "venues"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(4))
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(9, 3, 42, testDate, models.BookingStatusPending))

	bookings, err := svc.List(context.Background(), vendor, booking.ListFilter{})

	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_VendorFilterCannotEscapeScope(t *testing.T) {
	svc, mock, _ := newService(t)

	// Venue 5 exists but belongs to someone else; the filter intersects
	// with the ownership scope and yields nothing.
	mock.ExpectQuery(`SELECT "id" FROM "venues"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(4))

	bookings, err := svc.List(context.Background(), vendor, booking.ListFilter{VenueID: 5})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_CustomerFilterCannotEscapeScope(t *testing.T) {
	svc, _, _ := newService(t)

	bookings, err := svc.List(context.Background(), customer, booking.ListFilter{CustomerID: 99})

	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestPendingCount_RecomputedFromLedger(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 7, "Grand Hall"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := svc.PendingCount(context.Background(), vendor, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPendingCount_NotOwner(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).WillReturnRows(venueRows(3, 99, "Grand Hall"))

	_, err := svc.PendingCount(context.Background(), vendor, 3)

	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}
