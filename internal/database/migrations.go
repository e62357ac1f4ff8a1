package database

import (
	"github.com/shabasam/bookaspot-main/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.Venue{},
		&models.VenuePhoto{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Columns added after the first release
	if db.Migrator().HasTable(&models.Venue{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS gmap_url text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS description text DEFAULT ''",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE venues " + column).Error; err != nil {
				return err
			}
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		// Keep the status domain in step with the state machine
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'accepted', 'rejected', 'blocked', 'cancelled'))`).Error; err != nil {
			return err
		}

		// The double-booking guard. AutoMigrate creates it on fresh
		// databases; this covers schemas that predate the index.
		if !db.Migrator().HasIndex(&models.Booking{}, "idx_bookings_venue_date") {
			if err := db.Exec(`CREATE UNIQUE INDEX idx_bookings_venue_date ON bookings (venue_id, date)`).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
