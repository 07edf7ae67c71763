package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shiftswap/shiftswap/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (types.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return types.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(types.AuthenticatedUser)

	if !ok {
		return types.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetCurrentRole returns the membership status stashed by the membership
// gate for the group named in the route.
func GetCurrentRole(ctx *gin.Context) (string, error) {
	role, exists := ctx.Get(types.ContextRoleKey)

	if !exists {
		return "", fmt.Errorf("Membership not resolved")
	}

	status, ok := role.(string)

	if !ok {
		return "", fmt.Errorf("Invalid role type in context")
	}

	return status, nil
}
