// Package http implements the REST transport of the expense tracker.
//
// It wires chi routes to the service layer. Trace ids, access logging, panic
// recovery, response compression and bearer authentication are applied here,
// and service errors are translated into status codes and caller-visible
// reasons by a single ordered table.
package http
