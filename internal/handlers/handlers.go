package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiftswap/shiftswap/db"
	"github.com/shiftswap/shiftswap/internal/calendar"
	"github.com/shiftswap/shiftswap/internal/config"
	"github.com/shiftswap/shiftswap/internal/switches"
)

var (
	cfg       *config.Config
	Switches  *switches.Service
	Calendars *calendar.Index
)

// Init wires the handler package to the connected database and config.
// Called from main (and from handler tests) after db.DB is ready.
func Init(c *config.Config) {
	cfg = c
	Switches = switches.NewService(db.DB)
	Calendars = calendar.NewIndex(db.DB, c.CalendarLocation)
}

// respondServiceError maps the switch service's sentinel errors onto status
// codes. Unknown errors are store failures and become a 500.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, switches.ErrInvalidArgument):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, switches.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, switches.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, switches.ErrConflict), errors.Is(err, switches.ErrVersionConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Switch service error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
