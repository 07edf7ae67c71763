package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiftswap/shiftswap/internal/calendar"
	"github.com/shiftswap/shiftswap/internal/utils"
)

// GetCalendar materializes a month view for a group. The calendar id
// encodes the month; see the calendar package for the format.
func GetCalendar(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calendarID := ctx.Param("calendar_id")

	month, err := Calendars.Resolve(ctx.Request.Context(), groupID, calendarID)

	if err != nil {
		if errors.Is(err, calendar.ErrBadID) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to resolve calendar: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":   calendarID,
		"data": month,
	})
}
