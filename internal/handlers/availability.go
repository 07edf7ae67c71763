package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shiftswap/shiftswap/db"
	"github.com/shiftswap/shiftswap/internal/models"
	"github.com/shiftswap/shiftswap/internal/utils"
	"gorm.io/gorm"
)

type CreateAvailabilityRequest struct {
	Date  time.Time `json:"date" binding:"required"`
	Day   bool      `json:"day"`
	Night bool      `json:"night"`
}

type UpdateAvailabilityRequest struct {
	Day     *bool `json:"day" binding:"required"`
	Night   *bool `json:"night" binding:"required"`
	Version int   `json:"version" binding:"required"`
}

type AvailabilityResponse struct {
	ID      uint      `json:"id"`
	Version int       `json:"version"`
	User    uint      `json:"user"`
	Day     bool      `json:"day"`
	Night   bool      `json:"night"`
	Date    time.Time `json:"date"`
}

// CreateAvailability records the caller's availability for a date. One
// record per (group, user, date); the unique index backs the 409.
func CreateAvailability(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateAvailabilityRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	availability := models.Availability{
		GroupID: groupID,
		UserID:  userID,
		Date:    body.Date,
		Day:     body.Day,
		Night:   body.Night,
	}

	if err := db.DB.Create(&availability).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Availability already recorded for this date"})
			return
		}
		log.Printf("Failed to create availability: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create availability"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": availability.ID})
}

func ListAvailabilities(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	availabilityIDs := []uint{}

	err = db.DB.Model(&models.Availability{}).
		Where("group_id = ?", groupID).
		Order("id").
		Pluck("id", &availabilityIDs).Error

	if err != nil {
		log.Printf("Failed to list availabilities: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":   groupID,
		"data": availabilityIDs,
	})
}

func GetAvailability(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	availabilityID, err := utils.GetAvailabilityID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var availability models.Availability

	err = db.DB.Where("id = ? AND group_id = ?", availabilityID, groupID).First(&availability).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Availability not found"})
		} else {
			log.Printf("Failed to fetch availability: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":      availability.ID,
		"version": availability.Version,
		"data": AvailabilityResponse{
			ID:      availability.ID,
			Version: availability.Version,
			User:    availability.UserID,
			Day:     availability.Day,
			Night:   availability.Night,
			Date:    availability.Date,
		},
	})
}

// UpdateAvailability flips the day/night flags, guarded by the caller's
// version.
func UpdateAvailability(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	availabilityID, err := utils.GetAvailabilityID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateAvailabilityRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	res := db.DB.Model(&models.Availability{}).
		Where("id = ? AND group_id = ? AND version = ?", availabilityID, groupID, body.Version).
		Updates(map[string]interface{}{
			"day":     *body.Day,
			"night":   *body.Night,
			"version": body.Version + 1,
		})

	if res.Error != nil {
		log.Printf("Failed to update availability: %v", res.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if res.RowsAffected == 0 {
		var exists int64
		db.DB.Model(&models.Availability{}).
			Where("id = ? AND group_id = ?", availabilityID, groupID).
			Count(&exists)
		if exists == 0 {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Availability not found"})
		} else {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Availability was modified concurrently"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": availabilityID})
}
