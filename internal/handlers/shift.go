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

type CreateShiftRequest struct {
	TemplateID    uint      `json:"template" binding:"required"`
	Date          time.Time `json:"date" binding:"required"`
	OverridesTime *bool     `json:"overrides_time" binding:"required"`
	StartTime     *string   `json:"start_time"`
	EndTime       *string   `json:"end_time"`
	UserID        *uint     `json:"user"`
}

type UpdateShiftRequest struct {
	TemplateID    uint      `json:"template" binding:"required"`
	Date          time.Time `json:"date" binding:"required"`
	OverridesTime *bool     `json:"overrides_time" binding:"required"`
	StartTime     *string   `json:"start_time"`
	EndTime       *string   `json:"end_time"`
	UserID        *uint     `json:"user"`
	Version       int       `json:"version" binding:"required"`
}

type ShiftResponse struct {
	ID            uint      `json:"id"`
	Version       int       `json:"version"`
	Template      uint      `json:"template"`
	Date          time.Time `json:"date"`
	Creator       uint      `json:"creator"`
	OverridesTime bool      `json:"overrides_time"`
	StartTime     *string   `json:"start_time"`
	EndTime       *string   `json:"end_time"`
	User          *uint     `json:"user"`
}

// CreateShift creates a shift. The creator is the authenticated caller; a
// shift that overrides its template's times must carry both of them.
func CreateShift(ctx *gin.Context) {
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

	var body CreateShiftRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	overrides := body.OverridesTime != nil && *body.OverridesTime

	if overrides && (body.StartTime == nil || body.EndTime == nil) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Overriding shifts require start_time and end_time"})
		return
	}

	var template models.Template

	if err := db.DB.Where("id = ? AND group_id = ?", body.TemplateID, groupID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			log.Printf("Failed to fetch template: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	shift := models.Shift{
		TemplateID:    body.TemplateID,
		GroupID:       groupID,
		Date:          body.Date,
		CreatorID:     userID,
		OverridesTime: overrides,
		UserID:        body.UserID,
	}

	if overrides {
		shift.StartTime = body.StartTime
		shift.EndTime = body.EndTime
	}

	if err := db.DB.Create(&shift).Error; err != nil {
		log.Printf("Failed to create shift: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shift"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": shift.ID})
}

func ListShifts(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shiftIDs := []uint{}

	err = db.DB.Model(&models.Shift{}).
		Where("group_id = ?", groupID).
		Order("id").
		Pluck("id", &shiftIDs).Error

	if err != nil {
		log.Printf("Failed to list shifts: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": gin.H{"shifts": shiftIDs},
	})
}

// GetShift returns a shift. Shifts that do not override their template's
// times report the template defaults.
func GetShift(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shiftID, err := utils.GetShiftID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var shift models.Shift

	err = db.DB.Preload("Template").
		Where("id = ? AND group_id = ?", shiftID, groupID).
		First(&shift).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		} else {
			log.Printf("Failed to fetch shift: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	response := ShiftResponse{
		ID:            shift.ID,
		Version:       shift.Version,
		Template:      shift.TemplateID,
		Date:          shift.Date,
		Creator:       shift.CreatorID,
		OverridesTime: shift.OverridesTime,
		StartTime:     shift.StartTime,
		EndTime:       shift.EndTime,
		User:          shift.UserID,
	}

	if !shift.OverridesTime {
		response.StartTime = &shift.Template.StartTime
		response.EndTime = &shift.Template.EndTime
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":      shift.ID,
		"version": shift.Version,
		"data":    response,
	})
}

// UpdateShift replaces a shift's fields, guarded by the caller's version.
func UpdateShift(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shiftID, err := utils.GetShiftID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateShiftRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	overrides := body.OverridesTime != nil && *body.OverridesTime

	if overrides && (body.StartTime == nil || body.EndTime == nil) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Overriding shifts require start_time and end_time"})
		return
	}

	updates := map[string]interface{}{
		"template_id":    body.TemplateID,
		"date":           body.Date,
		"overrides_time": overrides,
		"user_id":        body.UserID,
		"version":        body.Version + 1,
	}

	if overrides {
		updates["start_time"] = body.StartTime
		updates["end_time"] = body.EndTime
	} else {
		updates["start_time"] = nil
		updates["end_time"] = nil
	}

	res := db.DB.Model(&models.Shift{}).
		Where("id = ? AND group_id = ? AND version = ?", shiftID, groupID, body.Version).
		Updates(updates)

	if res.Error != nil {
		log.Printf("Failed to update shift: %v", res.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if res.RowsAffected == 0 {
		var exists int64
		db.DB.Model(&models.Shift{}).
			Where("id = ? AND group_id = ?", shiftID, groupID).
			Count(&exists)
		if exists == 0 {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		} else {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Shift was modified concurrently"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": shiftID})
}
