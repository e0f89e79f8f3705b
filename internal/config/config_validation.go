// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"slices"
)

// validate checks that the merged [StructuredConfig] is usable at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" || !slices.Contains([]string{DriverPostgres, DriverSQLite}, cfg.Storage.DB.Driver) {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	if err := cfg.EmailConfirmation.validate(); err != nil {
		return err
	}

	if err := cfg.Mail.validate(); err != nil {
		return err
	}

	if !slices.Contains([]string{"", ExporterStdout, ExporterOTLP}, cfg.Telemetry.Exporter) ||
		(cfg.Telemetry.Exporter == ExporterOTLP && cfg.Telemetry.OTLPEndpoint == "") {
		return ErrInvalidTelemetryConfigs
	}

	return nil
}

func (e EmailConfirmation) validate() error {
	if e.ExpirationHours <= 0 {
		return fmt.Errorf("%w: expiration hours must be positive", ErrInvalidEmailConfirmationConfigs)
	}

	for _, target := range []string{e.SuccessURL, e.FailURL} {
		if _, err := url.ParseRequestURI(target); err != nil {
			return fmt.Errorf("%w: redirect target %q: %w", ErrInvalidEmailConfirmationConfigs, target, err)
		}
	}

	return nil
}

func (m Mail) validate() error {
	switch m.Driver {
	case MailDriverLog:
		return nil
	case MailDriverSMTP:
		if m.SMTPHost == "" || m.SMTPPort <= 0 || m.SenderAddress == "" {
			return fmt.Errorf("%w: smtp host, port and sender address are required", ErrInvalidMailConfigs)
		}
		return nil
	case MailDriverAMQP:
		if m.AMQPURL == "" || m.AMQPQueue == "" {
			return fmt.Errorf("%w: amqp url and queue are required", ErrInvalidMailConfigs)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidMailConfigs, m.Driver)
	}
}
