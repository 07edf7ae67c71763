package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shiftswap/shiftswap/internal/models"
	"github.com/shiftswap/shiftswap/internal/switches"
	"github.com/shiftswap/shiftswap/internal/types"
	"github.com/shiftswap/shiftswap/internal/utils"
)

type ProposeSwitchRequest struct {
	ShiftID          uint   `json:"shift" binding:"required"`
	ShiftRequestedID *uint  `json:"shift_requested"`
	Type             string `json:"type" binding:"required"`
	Message          string `json:"message" binding:"required"`
}

type RespondSwitchRequest struct {
	// Affirmative is coerced to a strict boolean: absent means false.
	Affirmative  bool  `json:"affirmative"`
	OfferShiftID *uint `json:"offer"`
}

type SwitchResponseBody struct {
	ID          uint   `json:"id"`
	Version     int    `json:"version"`
	Switch      uint   `json:"switch"`
	User        uint   `json:"user"`
	Affirmative bool   `json:"affirmative"`
	Offer       *uint  `json:"offer"`
	Accepted    bool   `json:"accepted"`
	DateCreated string `json:"date_created"`
}

func switchBody(sw *models.Switch, responseIDs []uint) gin.H {
	return gin.H{
		"id":              sw.ID,
		"version":         sw.Version,
		"shift":           sw.ShiftID,
		"shift_requested": sw.ShiftRequestedID,
		"type":            sw.Type,
		"proposer":        sw.ProposerID,
		"acceptor":        sw.AcceptorID,
		"message":         sw.Message,
		"cancelled":       sw.Cancelled,
		"responses":       responseIDs,
	}
}

func callerIsAdmin(ctx *gin.Context) bool {
	role, err := utils.GetCurrentRole(ctx)
	return err == nil && types.IsAdmin(role)
}

// ProposeSwitch opens a switch on a shift. The proposer is the
// authenticated caller.
func ProposeSwitch(ctx *gin.Context) {
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

	var body ProposeSwitchRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sw, err := Switches.Propose(ctx.Request.Context(), switches.ProposeInput{
		GroupID:          groupID,
		ShiftID:          body.ShiftID,
		ShiftRequestedID: body.ShiftRequestedID,
		Type:             body.Type,
		ProposerID:       userID,
		Message:          body.Message,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	BroadcastSwitchActivity(groupID, "switch_proposed", sw.ID)

	ctx.JSON(http.StatusCreated, gin.H{"id": sw.ID})
}

func ListSwitches(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switchIDs, err := Switches.ListForGroup(ctx.Request.Context(), groupID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":   groupID,
		"data": switchIDs,
	})
}

func GetSwitch(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switchID, err := utils.GetSwitchID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sw, responseIDs, err := Switches.Get(ctx.Request.Context(), groupID, switchID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":      sw.ID,
		"version": sw.Version,
		"data":    switchBody(sw, responseIDs),
	})
}

// CancelSwitch cancels a switch. Repeat cancels succeed without effect.
func CancelSwitch(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switchID, err := utils.GetSwitchID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err = Switches.Cancel(ctx.Request.Context(), groupID, switchID, userID, callerIsAdmin(ctx))

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	BroadcastSwitchActivity(groupID, "switch_cancelled", switchID)

	ctx.JSON(http.StatusOK, gin.H{"id": switchID})
}

// RespondToSwitch records the caller's reply to a switch.
func RespondToSwitch(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switchID, err := utils.GetSwitchID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body RespondSwitchRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	response, err := Switches.Respond(ctx.Request.Context(), switches.RespondInput{
		GroupID:      groupID,
		SwitchID:     switchID,
		UserID:       userID,
		Affirmative:  body.Affirmative,
		OfferShiftID: body.OfferShiftID,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	BroadcastSwitchActivity(groupID, "switch_response", switchID)

	ctx.JSON(http.StatusCreated, gin.H{"id": response.ID})
}

func ListSwitchResponses(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switchID, err := utils.GetSwitchID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	responseIDs, err := Switches.ListResponses(ctx.Request.Context(), groupID, switchID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":   switchID,
		"data": responseIDs,
	})
}

func GetSwitchResponse(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switchID, err := utils.GetSwitchID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	responseID, err := utils.GetResponseID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := Switches.GetResponse(ctx.Request.Context(), groupID, switchID, responseID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":      response.ID,
		"version": response.Version,
		"data": SwitchResponseBody{
			ID:          response.ID,
			Version:     response.Version,
			Switch:      response.SwitchID,
			User:        response.UserID,
			Affirmative: response.Affirmative,
			Offer:       response.OfferShiftID,
			Accepted:    response.Accepted,
			DateCreated: response.CreatedAt.Format(time.RFC3339),
		},
	})
}

// AcceptSwitchResponse resolves a switch with the chosen response and hands
// the shift to the respondent.
func AcceptSwitchResponse(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switchID, err := utils.GetSwitchID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	responseID, err := utils.GetResponseID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err = Switches.Accept(ctx.Request.Context(), groupID, switchID, responseID, userID, callerIsAdmin(ctx))

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	BroadcastSwitchActivity(groupID, "switch_accepted", switchID)

	ctx.JSON(http.StatusOK, gin.H{"id": switchID})
}
