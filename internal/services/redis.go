package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shabasam/bookaspot-main/internal/models"
)

const venueBookingsTTL = 5 * time.Minute

// NewRedisClient connects to Redis using REDIS_URL and verifies the
// connection with a ping.
func NewRedisClient() (*redis.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return client, nil
}

// Cache holds the per-venue booking projection used by the availability
// calendar. One key per venue; any booking mutation for the venue drops the
// key, so a cached read is never stale.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func venueBookingsKey(venueID uint) string {
	return fmt.Sprintf("venue:bookings:%d", venueID)
}

// GetVenueBookings returns the cached booking list for a venue. A miss, an
// unreachable Redis, or a corrupt payload all report !ok and the caller
// falls through to the database.
func (c *Cache) GetVenueBookings(ctx context.Context, venueID uint) ([]models.Booking, bool) {
	data, err := c.client.Get(ctx, venueBookingsKey(venueID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Cache read error for venue %d: %v", venueID, err)
		}
		return nil, false
	}

	var bookings []models.Booking
	if err := json.Unmarshal([]byte(data), &bookings); err != nil {
		log.Printf("Cache decode error for venue %d: %v", venueID, err)
		return nil, false
	}
	return bookings, true
}

// SetVenueBookings stores the booking list for a venue with a short TTL.
func (c *Cache) SetVenueBookings(ctx context.Context, venueID uint, bookings []models.Booking) {
	data, err := json.Marshal(bookings)
	if err != nil {
		log.Printf("Cache encode error for venue %d: %v", venueID, err)
		return
	}
	if err := c.client.Set(ctx, venueBookingsKey(venueID), data, venueBookingsTTL).Err(); err != nil {
		log.Printf("Cache write error for venue %d: %v", venueID, err)
	}
}

// Invalidate drops the cached projection for a venue. Called on every
// booking mutation touching the venue.
func (c *Cache) Invalidate(ctx context.Context, venueID uint) {
	if err := c.client.Del(ctx, venueBookingsKey(venueID)).Err(); err != nil {
		log.Printf("Cache invalidation error for venue %d: %v", venueID, err)
	}
}
