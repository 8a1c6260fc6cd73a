package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/logger"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return userID.(uint), nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parsePeriodQuery reads the month and year query parameters, defaulting to
// the current calendar month when both are absent.
func parsePeriodQuery(c *gin.Context) (int, int, error) {
	monthStr := c.Query("month")
	yearStr := c.Query("year")

	if monthStr == "" && yearStr == "" {
		now := timeNow()
		return int(now.Month()), now.Year(), nil
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid month")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year")
	}
	if month < 1 || month > 12 || year < 1 {
		return 0, 0, apperrors.ErrInvalidPeriod
	}
	return month, year, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
