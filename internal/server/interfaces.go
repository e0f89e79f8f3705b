package server

import "context"

// Server is the lifecycle contract of the transports managed by this package.
type Server interface {
	// RunServer serves until a termination signal arrives or a transport
	// fails.
	RunServer() error

	// Run serves until ctx is done or a transport fails, and then shuts down.
	Run(ctx context.Context) error

	// Shutdown gracefully stops every transport.
	Shutdown()
}
