package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robcowart/mqha/internal/config"
	"github.com/robcowart/mqha/internal/models"
)

// MetaHandler serves health and wizard metadata
type MetaHandler struct {
	cfg     *config.Config
	version string
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(cfg *config.Config, version string) *MetaHandler {
	return &MetaHandler{
		cfg:     cfg,
		version: version,
	}
}

// Health reports liveness
// @Summary Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/health [get]
func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Defaults returns the initial values of a new deployment
// @Summary Deployment defaults
// @Produce json
// @Success 200 {object} models.MQConfig
// @Router /api/v1/defaults [get]
func (h *MetaHandler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, models.DefaultMQConfig(h.cfg.Wizard))
}

// CipherSpecs lists the supported cipher specs
// @Summary Cipher specs
// @Produce json
// @Success 200 {array} string
// @Router /api/v1/cipher-specs [get]
func (h *MetaHandler) CipherSpecs(c *gin.Context) {
	c.JSON(http.StatusOK, models.SupportedCipherSpecs)
}
