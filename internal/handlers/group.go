package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiftswap/shiftswap/db"
	"github.com/shiftswap/shiftswap/internal/models"
	"github.com/shiftswap/shiftswap/internal/types"
	"github.com/shiftswap/shiftswap/internal/utils"
	"gorm.io/gorm"
)

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
	Tier string `json:"tier" binding:"required"`
}

// CreateGroup creates a group and an OWNER membership for its creator, in
// one transaction.
func CreateGroup(ctx *gin.Context) {
	var body CreateGroupRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	group := models.Group{
		Name: body.Name,
		Tier: body.Tier,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		membership := models.Membership{
			UserID:  userID,
			GroupID: group.ID,
			Status:  types.StatusOwner,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		log.Printf("Failed to create group: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": group.ID})
}

// ListGroups returns the ids of the groups the caller belongs to.
func ListGroups(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	groupIDs := []uint{}

	err = db.DB.Model(&models.Membership{}).
		Where("user_id = ?", userID).
		Order("group_id").
		Pluck("group_id", &groupIDs).Error

	if err != nil {
		log.Printf("Failed to list groups: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": groupIDs})
}

// GetGroup returns a group with its membership and switch ids.
func GetGroup(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group

	if err := db.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			log.Printf("Failed to fetch group: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	membershipIDs := []uint{}

	err = db.DB.Model(&models.Membership{}).
		Where("group_id = ?", groupID).
		Order("id").
		Pluck("id", &membershipIDs).Error

	if err != nil {
		log.Printf("Failed to fetch group memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switchIDs, err := Switches.ListForGroup(ctx.Request.Context(), groupID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":      group.ID,
		"version": group.Version,
		"group": gin.H{
			"id":          group.ID,
			"version":     group.Version,
			"name":        group.Name,
			"tier":        group.Tier,
			"memberships": membershipIDs,
			"switches":    switchIDs,
		},
	})
}
