package database

import (
	"fmt"
	"os"

	"github.com/shabasam/bookaspot-main/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError lets a unique-index violation surface as
	// gorm.ErrDuplicatedKey, which the booking core maps to its conflict
	// error.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto migrate the schema
	err = db.AutoMigrate(
		&models.Venue{},
		&models.VenuePhoto{},
		&models.Booking{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
