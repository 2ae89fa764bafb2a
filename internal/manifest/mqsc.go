package manifest

import (
	"fmt"
	"strings"

	"github.com/robcowart/mqha/internal/models"
)

// MQSC returns the startup MQSC script for the deployment, or "" when there
// is nothing to define
func MQSC(cfg *models.MQConfig) string {
	var lines []string

	if cfg.ChannelName != "" && !systemChannels[strings.ToUpper(cfg.ChannelName)] {
		lines = append(lines, fmt.Sprintf(
			"DEFINE CHANNEL('%s') CHLTYPE(SVRCONN) TRPTYPE(TCP) SSLCIPH('%s') SSLCAUTH(OPTIONAL) REPLACE",
			cfg.ChannelName, cfg.HACipherSpec))
	}
	if cfg.CreateSampleQueue && cfg.SampleQueueName != "" {
		lines = append(lines, fmt.Sprintf("DEFINE QLOCAL('%s') REPLACE", cfg.SampleQueueName))
	}
	if cfg.CreateAdminQueue && cfg.AdminQueueName != "" {
		lines = append(lines, fmt.Sprintf("DEFINE QLOCAL('%s') REPLACE", cfg.AdminQueueName))
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
