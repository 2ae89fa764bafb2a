package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/config"
	"github.com/robcowart/mqha/internal/manifest"
)

func TestManifestHandler(t *testing.T) {
	handler := NewManifestHandler(zap.NewNop())
	router := setupTestRouter()
	router.POST("/api/v1/manifests", handler.Manifests)
	router.POST("/api/v1/ccdt", handler.CCDT)
	router.POST("/api/v1/verification-commands", handler.VerificationCommands)

	t.Run("Manifests", func(t *testing.T) {
		mq := issuedMQConfig(t)
		w := postJSON(t, router, "/api/v1/manifests", mq)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))

		expected, err := manifest.Generate(&mq)
		require.NoError(t, err)
		assert.Equal(t, expected, w.Body.String())
		assert.Equal(t, 4, strings.Count(w.Body.String(), "\n---\n"))
	})

	t.Run("Manifests without a bundle", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/manifests", defaultMQConfig())
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), manifest.ErrMissingTLS.Error())
	})

	t.Run("CCDT", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/ccdt", defaultMQConfig())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=ccdt.json", w.Header().Get("Content-Disposition"))

		var ccdt manifest.CCDTFile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ccdt))
		require.Len(t, ccdt.Channel, 1)
		assert.Equal(t, "CLOUD.APP.SVRCONN", ccdt.Channel[0].Name)
		assert.Equal(t, "HAQM1", ccdt.Channel[0].ClientConnection.QueueManager)
		assert.Contains(t, w.Body.String(), "<HOSTNAME_FOR_HAQM1_ROUTE>")
	})

	t.Run("Verification commands", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/verification-commands", defaultMQConfig())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
		assert.Contains(t, w.Body.String(), "oc get queuemanager")
	})

	t.Run("Invalid deployment", func(t *testing.T) {
		mq := defaultMQConfig()
		mq.HACipherSpec = "NULL_MD5"

		for _, path := range []string{"/api/v1/manifests", "/api/v1/ccdt", "/api/v1/verification-commands"} {
			w := postJSON(t, router, path, mq)
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
			assert.Contains(t, w.Body.String(), "unsupported cipher spec", path)
		}
	})
}

func TestMetaHandler(t *testing.T) {
	cfg := config.Default()
	cfg.Wizard.Namespace = "mq-prod"

	handler := NewMetaHandler(cfg, "1.2.3")
	router := setupTestRouter()
	router.GET("/api/v1/health", handler.Health)
	router.GET("/api/v1/defaults", handler.Defaults)
	router.GET("/api/v1/cipher-specs", handler.CipherSpecs)

	get := func(path string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Health", func(t *testing.T) {
		w := get("/api/v1/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","version":"1.2.3"}`, w.Body.String())
	})

	t.Run("Defaults", func(t *testing.T) {
		w := get("/api/v1/defaults")
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "HAQM1", response["queueManagerName"])
		assert.Equal(t, "mq-prod", response["namespace"])
		assert.Equal(t, "NativeHA", response["availability"])
		assert.Equal(t, float64(3650), response["caValidityDays"])
		assert.NotContains(t, response, "tls")
	})

	t.Run("Cipher specs", func(t *testing.T) {
		w := get("/api/v1/cipher-specs")
		assert.Equal(t, http.StatusOK, w.Code)

		var specs []string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &specs))
		assert.Contains(t, specs, "ANY_TLS12_OR_HIGHER")
	})
}
