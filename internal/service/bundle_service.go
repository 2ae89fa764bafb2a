// Package service provides the issuance workflow of MQ Native HA TLS
// bundles. It runs the crypto engine under the configured time bounds,
// describes and re-validates issued material, and exports it in the formats
// MQ clients and operators consume.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/config"
	"github.com/robcowart/mqha/internal/crypto"
	"github.com/robcowart/mqha/internal/models"
)

// BundleService issues TLS bundles
type BundleService struct {
	cfg    *config.Config
	logger *zap.Logger
	keys   *crypto.KeyGenerator

	// issue produces the bundle. It is a field so it can be replaced during
	// testing.
	issue func(context.Context, *crypto.BundleRequest, *crypto.KeyGenerator) (*crypto.TLSBundle, error)
}

// NewBundleService creates a new bundle service
func NewBundleService(cfg *config.Config, logger *zap.Logger) *BundleService {
	return &BundleService{
		cfg:    cfg,
		logger: logger,
		keys:   crypto.NewKeyGenerator(cfg.PKI.KeyGenerationTimeout),
		issue:  crypto.GenerateTLSBundle,
	}
}

// Session is the result of one issuance
type Session struct {
	ID           string               `json:"session_id"`
	CreatedAt    time.Time            `json:"created_at"`
	TLS          *crypto.TLSBundle    `json:"tls"`
	Identities   []crypto.Identity    `json:"identities"`
	Certificates []*CertificateStatus `json:"certificates"`
}

// Generate validates the deployment description and issues a fresh bundle for
// it. Issuance runs on its own goroutine; when it does not finish within the
// issuance timeout the call fails with crypto.ErrKeyGeneration and the late
// result is discarded.
func (s *BundleService) Generate(ctx context.Context, mq *models.MQConfig) (*Session, error) {
	if err := mq.Validate(); err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	logger := s.logger.With(
		zap.String("session_id", sessionID),
		zap.String("queue_manager", mq.QueueManagerName),
		zap.String("namespace", mq.Namespace),
	)

	timeout := s.cfg.PKI.IssuanceTimeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		bundle *crypto.TLSBundle
		err    error
	}

	req := mq.BundleRequest(s.cfg.SubjectDN())
	start := time.Now()
	logger.Debug("Issuing TLS bundle",
		zap.Int("ca_validity_days", req.CAValidityDays),
		zap.Int("cert_validity_days", req.CertValidityDays))

	// buffered so an abandoned issuance can still deliver and exit
	done := make(chan result, 1)
	go func() {
		bundle, err := s.issue(ctx, req, s.keys)
		done <- result{bundle: bundle, err: err}
	}()

	var bundle *crypto.TLSBundle
	select {
	case r := <-done:
		if r.err != nil {
			logger.Error("Failed to issue TLS bundle", zap.Error(r.err))
			return nil, fmt.Errorf("failed to issue TLS bundle: %w", r.err)
		}
		bundle = r.bundle
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: no bundle after %s", crypto.ErrKeyGeneration, timeout)
		} else {
			err = fmt.Errorf("%w: %w", crypto.ErrKeyGeneration, err)
		}
		logger.Error("TLS bundle issuance abandoned", zap.Error(err))
		return nil, err
	}

	certificates, err := DescribeBundle(bundle, time.Now())
	if err != nil {
		logger.Error("Issued TLS bundle cannot be decoded", zap.Error(err))
		return nil, err
	}

	session := &Session{
		ID:        sessionID,
		CreatedAt: start.UTC(),
		TLS:       bundle,
		Identities: []crypto.Identity{
			crypto.ServerIdentity(mq.QueueManagerName, mq.Namespace),
			crypto.HAIdentity(mq.QueueManagerName, mq.Namespace),
		},
		Certificates: certificates,
	}

	fields := []zap.Field{zap.Duration("duration", time.Since(start))}
	for _, c := range certificates {
		fields = append(fields, zap.String(baseName(c.Artifact)+"_serial", c.SerialNumber))
	}
	logger.Info("TLS bundle issued", fields...)

	return session, nil
}
