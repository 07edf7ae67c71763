package handlers

import (
	"encoding/json"
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

type CreateTemplateRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Autofill  map[string]interface{} `json:"autofill" binding:"required"`
	Colour    string                 `json:"colour" binding:"required"`
	StartTime string                 `json:"start_time" binding:"required"`
	EndTime   string                 `json:"end_time" binding:"required"`
	Stipend   int                    `json:"stipend" binding:"required"`
}

type UpdateTemplateRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Autofill  map[string]interface{} `json:"autofill" binding:"required"`
	Colour    string                 `json:"colour" binding:"required"`
	StartTime string                 `json:"start_time" binding:"required"`
	EndTime   string                 `json:"end_time" binding:"required"`
	Stipend   int                    `json:"stipend" binding:"required"`
	Version   int                    `json:"version" binding:"required"`
}

type TemplateResponse struct {
	ID          uint            `json:"id"`
	Version     int             `json:"version"`
	Name        string          `json:"name"`
	DateCreated time.Time       `json:"date_created"`
	Autofill    json.RawMessage `json:"autofill"`
	Colour      string          `json:"colour"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Stipend     int             `json:"stipend"`
}

// CreateTemplate creates a shift template. The autofill policy is stored as
// a JSON blob.
func CreateTemplate(ctx *gin.Context) {
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

	var body CreateTemplateRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	autofillJSON, err := json.Marshal(body.Autofill)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid autofill format"})
		return
	}

	template := models.Template{
		Name:      body.Name,
		GroupID:   groupID,
		CreatorID: userID,
		Autofill:  autofillJSON,
		Colour:    body.Colour,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Stipend:   body.Stipend,
	}

	if err := db.DB.Create(&template).Error; err != nil {
		log.Printf("Failed to create template: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": template.ID})
}

func ListTemplates(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templateIDs := []uint{}

	err = db.DB.Model(&models.Template{}).
		Where("group_id = ?", groupID).
		Order("id").
		Pluck("id", &templateIDs).Error

	if err != nil {
		log.Printf("Failed to list templates: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":   groupID,
		"data": gin.H{"templates": templateIDs},
	})
}

func GetTemplate(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templateID, err := utils.GetTemplateID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var template models.Template

	err = db.DB.Where("id = ? AND group_id = ?", templateID, groupID).First(&template).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			log.Printf("Failed to fetch template: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":      template.ID,
		"version": template.Version,
		"data": TemplateResponse{
			ID:          template.ID,
			Version:     template.Version,
			Name:        template.Name,
			DateCreated: template.CreatedAt,
			Autofill:    json.RawMessage(template.Autofill),
			Colour:      template.Colour,
			StartTime:   template.StartTime,
			EndTime:     template.EndTime,
			Stipend:     template.Stipend,
		},
	})
}

// UpdateTemplate replaces a template's fields, guarded by the caller's
// version.
func UpdateTemplate(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templateID, err := utils.GetTemplateID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateTemplateRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	autofillJSON, err := json.Marshal(body.Autofill)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid autofill format"})
		return
	}

	res := db.DB.Model(&models.Template{}).
		Where("id = ? AND group_id = ? AND version = ?", templateID, groupID, body.Version).
		Updates(map[string]interface{}{
			"name":       body.Name,
			"autofill":   autofillJSON,
			"colour":     body.Colour,
			"start_time": body.StartTime,
			"end_time":   body.EndTime,
			"stipend":    body.Stipend,
			"version":    body.Version + 1,
		})

	if res.Error != nil {
		log.Printf("Failed to update template: %v", res.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if res.RowsAffected == 0 {
		var exists int64
		db.DB.Model(&models.Template{}).
			Where("id = ? AND group_id = ?", templateID, groupID).
			Count(&exists)
		if exists == 0 {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Template was modified concurrently"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": templateID})
}

// DeleteTemplate removes a template. Admin-gated in the router; templates
// with shifts cannot be removed.
func DeleteTemplate(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templateID, err := utils.GetTemplateID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var inUse int64

	err = db.DB.Model(&models.Shift{}).
		Where("template_id = ?", templateID).
		Count(&inUse).Error

	if err != nil {
		log.Printf("Failed to check template usage: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if inUse > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Template is in use by shifts"})
		return
	}

	res := db.DB.Where("id = ? AND group_id = ?", templateID, groupID).Delete(&models.Template{})

	if res.Error != nil {
		log.Printf("Failed to delete template: %v", res.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
