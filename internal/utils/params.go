package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramAsUint(ctx *gin.Context, name, label string) (uint, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New(label + " not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label)
	}

	return uint(id), nil
}

func GetEventID(ctx *gin.Context) (uint, error) {
	return paramAsUint(ctx, "event_id", "Event ID")
}

func GetMediaID(ctx *gin.Context) (uint, error) {
	return paramAsUint(ctx, "media_id", "Media ID")
}

func GetContributionID(ctx *gin.Context) (uint, error) {
	return paramAsUint(ctx, "contribution_id", "Contribution ID")
}
