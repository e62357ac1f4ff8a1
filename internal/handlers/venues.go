package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shabasam/bookaspot-main/internal/models"
	"github.com/shabasam/bookaspot-main/internal/services"
)

// CreateVenue handles a vendor listing a new venue
func CreateVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		if role != "vendor" {
			c.JSON(403, gin.H{"error": "Only vendors can list venues"})
			return
		}

		var input struct {
			Name        string `json:"name" binding:"required"`
			Address     string `json:"address" binding:"required"`
			GmapURL     string `json:"gmapUrl"`
			Capacity    int    `json:"capacity" binding:"required"`
			Cost        string `json:"cost" binding:"required"`
			Contact     string `json:"contact" binding:"required"`
			EventType   string `json:"eventType" binding:"required"`
			Description string `json:"description"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		venue := models.Venue{
			OwnerID:     userId,
			Name:        input.Name,
			Address:     input.Address,
			GmapURL:     input.GmapURL,
			Capacity:    input.Capacity,
			Cost:        input.Cost,
			Contact:     input.Contact,
			EventType:   input.EventType,
			Description: input.Description,
		}

		if err := db.Create(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create venue"})
			return
		}

		c.JSON(201, venue)
	}
}

// GetMyVenues retrieves all venues listed by the calling vendor
func GetMyVenues(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var venues []models.Venue
		if err := db.Where("owner_id = ?", userId).
			Preload("Photos").
			Find(&venues).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch venues"})
			return
		}

		c.JSON(200, venues)
	}
}

// GetVenue retrieves a single venue listing
func GetVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		var venue models.Venue
		if err := db.Preload("Photos").First(&venue, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		c.JSON(200, venue)
	}
}

// UpdateVenue updates a venue listing owned by the calling vendor
func UpdateVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Name        *string `json:"name"`
			Address     *string `json:"address"`
			GmapURL     *string `json:"gmapUrl"`
			Capacity    *int    `json:"capacity"`
			Cost        *string `json:"cost"`
			Contact     *string `json:"contact"`
			EventType   *string `json:"eventType"`
			Description *string `json:"description"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var venue models.Venue
		if err := db.First(&venue, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		if venue.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		// Update fields individually to handle empty strings properly
		if input.Name != nil {
			venue.Name = *input.Name
		}
		if input.Address != nil {
			venue.Address = *input.Address
		}
		if input.GmapURL != nil {
			venue.GmapURL = *input.GmapURL
		}
		if input.Capacity != nil {
			venue.Capacity = *input.Capacity
		}
		if input.Cost != nil {
			venue.Cost = *input.Cost
		}
		if input.Contact != nil {
			venue.Contact = *input.Contact
		}
		if input.EventType != nil {
			venue.EventType = *input.EventType
		}
		if input.Description != nil {
			venue.Description = *input.Description
		}

		if err := db.Save(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update venue"})
			return
		}

		c.JSON(200, venue)
	}
}

// SearchVenues finds venues by event type and location
func SearchVenues(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventType := c.Query("eventType")
		location := c.Query("location")

		if eventType == "" || location == "" {
			c.JSON(400, gin.H{"error": "Both event type and location are required"})
			return
		}

		var venues []models.Venue
		if err := db.Preload("Photos").
			Where("LOWER(event_type) LIKE LOWER(?)", "%"+strings.ToLower(eventType)+"%").
			Where("LOWER(address) LIKE LOWER(?)", "%"+strings.ToLower(location)+"%").
			Find(&venues).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to search venues"})
			return
		}

		c.JSON(200, venues)
	}
}

// UploadVenuePhoto attaches a photo to a venue listing
func UploadVenuePhoto(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		var venue models.Venue
		if err := db.First(&venue, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		if venue.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "Photo is required"})
			return
		}

		imageURL, err := storage.UploadImage(file, "venues")
		if err != nil {
			c.JSON(500, gin.H{
				"error":   "Failed to upload photo",
				"details": err.Error(),
			})
			return
		}

		photo := models.VenuePhoto{
			VenueID: venue.ID,
			URL:     imageURL,
		}

		if err := db.Create(&photo).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save photo"})
			return
		}

		c.JSON(201, gin.H{
			"id":  photo.ID,
			"url": storage.ImageURL(photo.URL),
		})
	}
}

// DeleteVenuePhoto removes a photo from a venue listing
func DeleteVenuePhoto(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		photoId, ok := idParam(c, "photoId")
		if !ok {
			return
		}

		var photo models.VenuePhoto
		if err := db.First(&photo, photoId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Photo not found"})
			return
		}

		var venue models.Venue
		if err := db.First(&venue, photo.VenueID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		if venue.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		if err := storage.DeleteImage(photo.URL); err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete photo"})
			return
		}

		if err := db.Delete(&photo).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete photo"})
			return
		}

		c.JSON(200, gin.H{"message": "Photo deleted successfully"})
	}
}
