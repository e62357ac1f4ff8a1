package booking

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shabasam/bookaspot-main/internal/models"
)

// Directory resolves venues and their ownership for the authorization
// checks. It is the only way the booking core looks at the venues table.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// GetVenue returns the venue or ErrNotFound.
func (d *Directory) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := d.db.WithContext(ctx).First(&venue, id).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return &venue, nil
}

// OwnedVenueIDs returns the IDs of every venue the vendor owns. Used to
// scope booking list queries.
func (d *Directory) OwnedVenueIDs(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	if err := d.db.WithContext(ctx).Model(&models.Venue{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return ids, nil
}

// translateStoreError maps a GORM error onto the core taxonomy. A missing
// row is NotFound; anything else is treated as a transient store failure.
func translateStoreError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
