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

type UpdateMembershipRequest struct {
	Status string `json:"status" binding:"required"`
}

type MembershipResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
}

func ListMemberships(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	membershipIDs := []uint{}

	err = db.DB.Model(&models.Membership{}).
		Where("group_id = ?", groupID).
		Order("id").
		Pluck("id", &membershipIDs).Error

	if err != nil {
		log.Printf("Failed to list memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":   groupID,
		"data": membershipIDs,
	})
}

func GetMembership(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	membershipID, err := utils.GetMembershipID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var membership models.Membership

	err = db.DB.Preload("User").
		Where("id = ? AND group_id = ?", membershipID, groupID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		} else {
			log.Printf("Failed to fetch membership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id": membership.ID,
		"data": MembershipResponse{
			ID:        membership.ID,
			FirstName: membership.User.FirstName,
			LastName:  membership.User.LastName,
			Status:    membership.Status,
		},
	})
}

// UpdateMembershipStatus changes a member's clearance. Admin-gated in the
// router.
func UpdateMembershipStatus(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	membershipID, err := utils.GetMembershipID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateMembershipRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !types.ValidStatus(body.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status must be OWNER, ADMIN or STAFF"})
		return
	}

	res := db.DB.Model(&models.Membership{}).
		Where("id = ? AND group_id = ?", membershipID, groupID).
		Updates(map[string]interface{}{
			"status":  body.Status,
			"version": gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		log.Printf("Failed to update membership: %v", res.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": membershipID})
}
