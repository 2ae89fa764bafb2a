package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/manifest"
	"github.com/robcowart/mqha/internal/models"
)

// ManifestHandler renders deployment artifacts
type ManifestHandler struct {
	logger *zap.Logger
}

// NewManifestHandler creates a new manifest handler
func NewManifestHandler(logger *zap.Logger) *ManifestHandler {
	return &ManifestHandler{logger: logger}
}

// Manifests renders the Kubernetes resources of a deployment
// @Summary Generate manifests
// @Description Render the Secrets, MQSC ConfigMap and QueueManager as multi-document YAML
// @Accept json
// @Produce application/yaml
// @Param request body models.MQConfig true "Deployment with tls"
// @Success 200 {string} string
// @Router /api/v1/manifests [post]
func (h *ManifestHandler) Manifests(c *gin.Context) {
	var mq models.MQConfig
	if !bindMQConfig(c, h.logger, &mq, &mq) {
		return
	}

	yaml, err := manifest.Generate(&mq)
	if err != nil {
		respondError(c, h.logger, "Failed to generate manifests", err, true)
		return
	}

	c.Data(http.StatusOK, "application/yaml", []byte(yaml))
}

// CCDT renders the client channel definition table of a deployment
// @Summary Generate CCDT
// @Description Render the JSON client channel definition table
// @Accept json
// @Produce json
// @Param request body models.MQConfig true "Deployment"
// @Success 200 {object} manifest.CCDTFile
// @Router /api/v1/ccdt [post]
func (h *ManifestHandler) CCDT(c *gin.Context) {
	var mq models.MQConfig
	if !bindMQConfig(c, h.logger, &mq, &mq) {
		return
	}

	ccdt, err := manifest.CCDT(&mq)
	if err != nil {
		respondError(c, h.logger, "Failed to generate CCDT", err, false)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=ccdt.json")
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(ccdt))
}

// VerificationCommands renders the shell commands that check a deployment
// @Summary Generate verification commands
// @Accept json
// @Produce plain
// @Param request body models.MQConfig true "Deployment"
// @Success 200 {string} string
// @Router /api/v1/verification-commands [post]
func (h *ManifestHandler) VerificationCommands(c *gin.Context) {
	var mq models.MQConfig
	if !bindMQConfig(c, h.logger, &mq, &mq) {
		return
	}

	c.String(http.StatusOK, manifest.VerificationCommands(&mq))
}
