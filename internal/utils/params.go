package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramUint(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + name)
	}

	return uint(id), nil
}

func GetGroupID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "group_id")
}

func GetShiftID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "shift_id")
}

func GetTemplateID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "template_id")
}

func GetSwitchID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "switch_id")
}

func GetResponseID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "response_id")
}

func GetAvailabilityID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "availability_id")
}

func GetMembershipID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "membership_id")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "user_id")
}
