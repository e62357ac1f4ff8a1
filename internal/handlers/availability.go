package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shabasam/bookaspot-main/internal/booking"
)

// GetAvailability returns the per-day calendar for a venue over a date
// range. Defaults to the next twelve months when no range is given, which
// is the window the booking calendars render.
func GetAvailability(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		start := time.Now()
		end := start.AddDate(0, 12, 0)

		if v := c.Query("startDate"); v != "" {
			parsed, err := time.Parse(dateLayout, v)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
				return
			}
			start = parsed
		}
		if v := c.Query("endDate"); v != "" {
			parsed, err := time.Parse(dateLayout, v)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
				return
			}
			end = parsed
		}

		days, err := svc.Availability(c.Request.Context(), id, start, end)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, days)
	}
}

// GetPendingCount returns the number of open requests for a venue,
// recomputed from the ledger on every call
func GetPendingCount(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		count, err := svc.PendingCount(c.Request.Context(), callerFrom(c), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"venueId": id, "pendingCount": count})
	}
}
