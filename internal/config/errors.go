package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing token signing settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates an empty DSN or an unknown driver.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates that no listener address is set.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidEmailConfirmationConfigs indicates a non-positive confirmation
	// window or unusable redirect targets.
	ErrInvalidEmailConfirmationConfigs = errors.New("invalid email confirmation configuration")
	// ErrInvalidMailConfigs indicates an unknown mail driver or missing
	// driver settings.
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
	// ErrInvalidTelemetryConfigs indicates an unknown exporter or a missing
	// collector endpoint.
	ErrInvalidTelemetryConfigs = errors.New("invalid telemetry configuration")
)
