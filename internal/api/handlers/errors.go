package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/api/middleware"
	"github.com/robcowart/mqha/internal/crypto"
	"github.com/robcowart/mqha/internal/manifest"
	"github.com/robcowart/mqha/internal/models"
	"github.com/robcowart/mqha/internal/service"
)

// statusForError maps an error to its HTTP status. callerPEM marks requests
// whose PEM material was supplied by the caller, in which case encoding
// failures are the caller's fault.
func statusForError(err error, callerPEM bool) int {
	switch {
	case errors.Is(err, models.ErrInvalidConfig),
		errors.Is(err, crypto.ErrCertificateBuild),
		errors.Is(err, manifest.ErrMissingTLS),
		errors.Is(err, service.ErrUnsupportedExport):
		return http.StatusBadRequest
	case errors.Is(err, crypto.ErrEncoding) && callerPEM:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes it as a JSON error body
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error, callerPEM bool) {
	status := statusForError(err, callerPEM)
	log := middleware.GetLogger(c, logger)
	if status >= http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
	} else {
		log.Warn(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindMQConfig decodes a JSON MQConfig and validates it
func bindMQConfig(c *gin.Context, logger *zap.Logger, target interface{}, cfg *models.MQConfig) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := cfg.Validate(); err != nil {
		respondError(c, logger, "Rejected deployment description", err, true)
		return false
	}
	return true
}
