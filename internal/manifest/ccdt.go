package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robcowart/mqha/internal/models"
)

// CCDTFile is a JSON client channel definition table
type CCDTFile struct {
	Channel []CCDTChannel `json:"channel"`
}

// CCDTChannel is one channel entry of a CCDT
type CCDTChannel struct {
	Name                 string                   `json:"name"`
	ClientConnection     CCDTClientConnection     `json:"clientConnection"`
	TransmissionSecurity CCDTTransmissionSecurity `json:"transmissionSecurity"`
	Type                 string                   `json:"type"`
}

// CCDTClientConnection lists where a client channel connects to
type CCDTClientConnection struct {
	Connection   []CCDTConnection `json:"connection"`
	QueueManager string           `json:"queueManager"`
}

// CCDTConnection is one host and port of a client connection
type CCDTConnection struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// CCDTTransmissionSecurity holds the TLS settings of a channel
type CCDTTransmissionSecurity struct {
	CipherSpecification string `json:"cipherSpecification"`
}

// RouteHostPlaceholder returns the host written into the CCDT. It must be
// replaced with the host of the passthrough route exposing the queue
// manager's listener.
func RouteHostPlaceholder(queueManagerName string) string {
	return fmt.Sprintf("<HOSTNAME_FOR_%s_ROUTE>", queueManagerName)
}

// NewCCDT returns the client channel table for the deployment
func NewCCDT(cfg *models.MQConfig) *CCDTFile {
	return &CCDTFile{
		Channel: []CCDTChannel{
			{
				Name: cfg.ChannelName,
				ClientConnection: CCDTClientConnection{
					Connection: []CCDTConnection{
						{Host: RouteHostPlaceholder(cfg.QueueManagerName), Port: routePort},
					},
					QueueManager: MQName(cfg.QueueManagerName),
				},
				TransmissionSecurity: CCDTTransmissionSecurity{
					CipherSpecification: cfg.HACipherSpec,
				},
				Type: "clientConnection",
			},
		},
	}
}

// CCDT renders NewCCDT as indented JSON. The host placeholder is written
// verbatim rather than HTML-escaped.
func CCDT(cfg *models.MQConfig) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewCCDT(cfg)); err != nil {
		return "", fmt.Errorf("failed to marshal CCDT: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
