package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/service/extraction"
	"github.com/mamadbah2/fuelstation/internal/service/station"
	"github.com/mamadbah2/fuelstation/pkg/clients/anthropic"
)

var errInvalidDate = errors.New("dates must be formatted YYYY-MM-DD")

// writeError maps service errors onto HTTP responses.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, station.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, station.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, station.ErrUnknownFuel),
		errors.Is(err, station.ErrUnknownProfile),
		errors.Is(err, station.ErrFuelMismatch),
		errors.Is(err, station.ErrEmptyEntry),
		errors.Is(err, extraction.ErrUnknownKind),
		errors.Is(err, errInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, anthropic.ErrAPI), errors.Is(err, anthropic.ErrEmptyResponse):
		logger.Warn("extraction model unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "document reader unavailable, try again later"})
	case errors.Is(err, extraction.ErrMalformedOutput):
		logger.Warn("extraction produced unusable output", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "document could not be read"})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badBody(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// dateQuery reads an optional YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, key string) (string, error) {
	value := c.Query(key)
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return "", errInvalidDate
	}
	return value, nil
}

// Unavailable answers 503 for features whose integration is not configured.
func Unavailable(reason string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": reason})
	}
}
