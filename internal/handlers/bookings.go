package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shabasam/bookaspot-main/internal/booking"
	"github.com/shabasam/bookaspot-main/internal/models"
	"github.com/shabasam/bookaspot-main/internal/services"
)

const dateLayout = "2006-01-02"

// callerFrom assembles the core's caller identity from what the auth
// middleware put on the context.
func callerFrom(c *gin.Context) booking.Caller {
	return booking.Caller{
		ID:   c.GetUint("userId"),
		Role: c.GetString("role"),
	}
}

// respondError maps the core error taxonomy onto transport status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrUnauthorized):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrConflict):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrIllegalTransition):
		c.JSON(422, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrUnavailable):
		c.JSON(503, gin.H{"error": "Service temporarily unavailable"})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func broadcast(hub *services.Hub, msgType string, b *models.Booking, status models.BookingStatus) {
	if hub == nil {
		return
	}
	hub.SendCalendarUpdate(msgType, services.CalendarUpdate{
		VenueID:   b.VenueID,
		BookingID: b.ID,
		Date:      b.Date.Format(dateLayout),
		Status:    string(status),
	})
}

// CreateBooking handles a customer's request for a date
func CreateBooking(svc *booking.Service, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VenueID uint   `json:"venueId" binding:"required"`
			Date    string `json:"date" binding:"required"`
			Notes   string `json:"notes"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse(dateLayout, input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		b, err := svc.CreateBooking(c.Request.Context(), callerFrom(c), booking.CreateInput{
			VenueID:       input.VenueID,
			Date:          date,
			Notes:         input.Notes,
			CustomerName:  c.GetString("userName"),
			CustomerEmail: c.GetString("userEmail"),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		broadcast(hub, "booking_created", b, b.Status)
		c.JSON(201, b)
	}
}

// BlockDate handles a vendor marking a date unavailable
func BlockDate(svc *booking.Service, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VenueID uint   `json:"venueId" binding:"required"`
			Date    string `json:"date" binding:"required"`
			Notes   string `json:"notes"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse(dateLayout, input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		b, err := svc.BlockDate(c.Request.Context(), callerFrom(c), input.VenueID, date, input.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		broadcast(hub, "booking_created", b, b.Status)
		c.JSON(201, b)
	}
}

// GetBooking retrieves a single booking visible to the caller
func GetBooking(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		b, err := svc.GetBooking(c.Request.Context(), callerFrom(c), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, b)
	}
}

// ListBookings retrieves bookings scoped to the caller, with optional
// venueId/customerId/startDate/endDate filters
func ListBookings(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter booking.ListFilter

		if v := c.Query("venueId"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid venueId"})
				return
			}
			filter.VenueID = uint(id)
		}
		if v := c.Query("customerId"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid customerId"})
				return
			}
			filter.CustomerID = uint(id)
		}
		if start, end := c.Query("startDate"), c.Query("endDate"); start != "" && end != "" {
			from, err := time.Parse(dateLayout, start)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
				return
			}
			to, err := time.Parse(dateLayout, end)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
				return
			}
			filter.From = from
			filter.To = to
		}

		bookings, err := svc.List(c.Request.Context(), callerFrom(c), filter)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, bookings)
	}
}

// UpdateBookingStatus applies a vendor decision (accept/reject/cancel)
func UpdateBookingStatus(svc *booking.Service, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"required,oneof=accepted rejected cancelled"`
			Notes  string `json:"notes"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		b, err := svc.UpdateStatus(c.Request.Context(), callerFrom(c), id,
			models.BookingStatus(input.Status), input.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		// TODO: when an accepted booking is cancelled, notify the customer
		// once the notification service is hooked up.

		broadcast(hub, "booking_status_changed", b, b.Status)
		c.JSON(200, b)
	}
}

// DeleteBooking removes a booking or unblocks a date, freeing it
func DeleteBooking(svc *booking.Service, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		caller := callerFrom(c)
		b, err := svc.GetBooking(c.Request.Context(), caller, id)
		if err != nil {
			respondError(c, err)
			return
		}

		if err := svc.Delete(c.Request.Context(), caller, id); err != nil {
			respondError(c, err)
			return
		}

		broadcast(hub, "date_freed", b, booking.StatusFree)
		c.JSON(200, gin.H{"message": "Booking deleted successfully"})
	}
}
