package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/api/middleware"
	"github.com/robcowart/mqha/internal/models"
	"github.com/robcowart/mqha/internal/service"
)

// BundleIssuer issues TLS bundles for a deployment
type BundleIssuer interface {
	Generate(ctx context.Context, mq *models.MQConfig) (*service.Session, error)
}

// TLSHandler handles TLS bundle operations
type TLSHandler struct {
	issuer BundleIssuer
	logger *zap.Logger
}

// NewTLSHandler creates a new TLS handler
func NewTLSHandler(issuer BundleIssuer, logger *zap.Logger) *TLSHandler {
	return &TLSHandler{
		issuer: issuer,
		logger: logger,
	}
}

// GenerateTLS issues a fresh bundle
// @Summary Generate TLS bundle
// @Description Validate the deployment and issue a CA, queue manager and HA certificate
// @Accept json
// @Produce json
// @Param request body models.MQConfig true "Deployment"
// @Success 201 {object} service.Session
// @Router /api/v1/tls [post]
func (h *TLSHandler) GenerateTLS(c *gin.Context) {
	var mq models.MQConfig
	if !bindMQConfig(c, h.logger, &mq, &mq) {
		return
	}

	session, err := h.issuer.Generate(c.Request.Context(), &mq)
	if err != nil {
		respondError(c, h.logger, "Failed to generate TLS bundle", err, false)
		return
	}

	middleware.GetLogger(c, h.logger).Info("TLS bundle generated", zap.String("session_id", session.ID))

	c.JSON(http.StatusCreated, session)
}

// VerifyResponse is the result of re-validating a bundle
type VerifyResponse struct {
	Valid  bool                      `json:"valid"`
	Issues []service.ValidationIssue `json:"issues"`
}

// VerifyTLS re-validates the bundle of a deployment
// @Summary Verify TLS bundle
// @Description Re-parse the PEM material and check names, chain and key correspondence
// @Accept json
// @Produce json
// @Param request body models.MQConfig true "Deployment with tls"
// @Success 200 {object} VerifyResponse
// @Router /api/v1/tls/verify [post]
func (h *TLSHandler) VerifyTLS(c *gin.Context) {
	var mq models.MQConfig
	if !bindMQConfig(c, h.logger, &mq, &mq) {
		return
	}

	issues := service.VerifyBundle(&mq, mq.TLS)
	if issues == nil {
		issues = []service.ValidationIssue{}
	}

	c.JSON(http.StatusOK, VerifyResponse{Valid: len(issues) == 0, Issues: issues})
}

// ExportTLSRequest is a deployment with its bundle plus the export options
type ExportTLSRequest struct {
	models.MQConfig
	service.ExportRequest
}

// ExportTLS exports bundle material
// @Summary Export TLS material
// @Description Download one artifact as PEM, a PEM bundle, a PKCS#12 keystore or truststore, or every artifact as ZIP
// @Accept json
// @Produce application/octet-stream
// @Param request body ExportTLSRequest true "Export request"
// @Success 200 {file} binary
// @Router /api/v1/tls/export [post]
func (h *TLSHandler) ExportTLS(c *gin.Context) {
	var req ExportTLSRequest
	if !bindMQConfig(c, h.logger, &req, &req.MQConfig) {
		return
	}

	result, err := service.Export(&req.MQConfig, &req.ExportRequest)
	if err != nil {
		respondError(c, h.logger, "Failed to export TLS material", err, true)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+sanitizeFilename(result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

var invalidFilenameChars = regexp.MustCompile(`[/\\:*?"<>|]`)

// sanitizeFilename sanitizes a string to be safe for use as a filename
func sanitizeFilename(name string) string {
	sanitized := invalidFilenameChars.ReplaceAllString(name, "_")
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	sanitized = strings.Trim(sanitized, ". ")

	if len(sanitized) > 200 {
		sanitized = sanitized[:200]
	}
	if sanitized == "" {
		sanitized = "download"
	}

	return sanitized
}
